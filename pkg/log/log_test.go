package log

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/AbhayKTS/sales-prediction/pkg/errors"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	return &buf
}

func TestStructuredFields(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(LevelDebug)

	logger := GetLoggerWithName("linear").With(ModelNameKey, "Regression")
	logger.Info("Training started",
		OperationKey, OperationFit,
		SamplesKey, 200,
	)

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if event["logger"] != "linear" {
		t.Errorf("logger name missing: %v", event)
	}
	if event[ModelNameKey] != "Regression" {
		t.Errorf("With field missing: %v", event)
	}
	if event[OperationKey] != OperationFit {
		t.Errorf("operation field missing: %v", event)
	}
	if event[SamplesKey] != float64(200) {
		t.Errorf("samples field missing: %v", event)
	}
}

func TestErrorField(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(LevelDebug)

	GetLogger().Error("Initialization failed", errors.New("no dataset"), ComponentKey, "predictor")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if event["error"] != "no dataset" {
		t.Errorf("leading error should become the event error: %v", event)
	}
	if event[ComponentKey] != "predictor" {
		t.Errorf("remaining fields should survive: %v", event)
	}
}

func TestEnabled(t *testing.T) {
	SetLevel(LevelWarn)
	defer SetLevel(LevelDebug)

	logger := GetLogger()
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error should be enabled at warn level")
	}
}
