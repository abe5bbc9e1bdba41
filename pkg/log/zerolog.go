package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// zerologLogger implements Logger on top of a zerolog.Logger.
type zerologLogger struct {
	logger zerolog.Logger
}

var (
	baseMu   sync.RWMutex
	baseRoot = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// GetLogger returns the default logger instance.
func GetLogger() Logger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return &zerologLogger{logger: baseRoot}
}

// GetLoggerWithName returns a logger with a component identifier attached.
func GetLoggerWithName(name string) Logger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return &zerologLogger{logger: baseRoot.With().Str("logger", name).Logger()}
}

// SetLevel sets the minimum level emitted by all loggers.
func SetLevel(level Level) {
	zerolog.SetGlobalLevel(toZerologLevel(level))
}

// SetOutput redirects all loggers to the given writer. Intended for tests and
// for switching the server to console output.
func SetOutput(w io.Writer) {
	baseMu.Lock()
	defer baseMu.Unlock()
	baseRoot = zerolog.New(w).With().Timestamp().Logger()
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func fromZerologLevel(level zerolog.Level) Level {
	switch level {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return LevelDebug
	case zerolog.InfoLevel:
		return LevelInfo
	case zerolog.WarnLevel:
		return LevelWarn
	default:
		return LevelError
	}
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.logger.Debug(), msg, fields)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	z.emit(z.logger.Info(), msg, fields)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.logger.Warn(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	event := z.logger.Error()
	// An error in the leading position becomes the event error.
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			event = event.Err(err)
			fields = fields[1:]
		}
	}
	z.emit(event, msg, fields)
}

func (z *zerologLogger) With(fields ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= fromZerologLevel(zerolog.GlobalLevel())
}

func (z *zerologLogger) emit(event *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}
