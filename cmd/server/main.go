// Command server runs the sales-prediction HTTP API.
//
// It prefers a precomputed artifact (model-coefs.json) and falls back to
// fitting a fresh regression from the advertising CSV. A failed startup
// initialization is non-fatal; the API reports the model as unavailable until
// a later request path succeeds.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AbhayKTS/sales-prediction/httpapi"
	"github.com/AbhayKTS/sales-prediction/pkg/log"
	"github.com/AbhayKTS/sales-prediction/predictor"
)

func main() {
	var (
		addr     = flag.String("addr", envOr("ADDR", ":8000"), "listen address")
		artifact = flag.String("artifact", "", "path to the model artifact JSON (optional)")
		csv      = flag.String("csv", "advertising.csv", "path to the advertising dataset CSV")
		level    = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	log.SetLevel(parseLevel(*level))
	logger := log.GetLoggerWithName("server")

	opts := []predictor.Option{}
	if *artifact != "" {
		opts = append(opts, predictor.WithArtifactSource(predictor.FileOpener(*artifact)))
	}
	provider := predictor.NewProvider(predictor.FileOpener(*csv), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := provider.Initialize(ctx); err != nil {
		logger.Warn("Model initialization failed at startup, serving degraded",
			"reason", err.Error(),
		)
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      httpapi.NewRouter(provider),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
