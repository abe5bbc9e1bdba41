package errors

import (
	"strings"
	"testing"
)

func TestNotInitializedError(t *testing.T) {
	err := NewNotInitializedError("Provider", "PredictChannels")

	var notInit *NotInitializedError
	if !As(err, &notInit) {
		t.Fatalf("expected NotInitializedError, got %T", err)
	}
	if notInit.Component != "Provider" || notInit.Method != "PredictChannels" {
		t.Errorf("unexpected fields: %+v", notInit)
	}
	if !strings.Contains(err.Error(), "Initialize()") {
		t.Errorf("message should mention Initialize(): %q", err.Error())
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("algebra.MatMul", 3, 4, 1)

	var dim *DimensionError
	if !As(err, &dim) {
		t.Fatalf("expected DimensionError, got %T", err)
	}
	if dim.Expected != 3 || dim.Got != 4 {
		t.Errorf("unexpected fields: %+v", dim)
	}
	if !strings.Contains(err.Error(), "columns") {
		t.Errorf("axis 1 should be reported as columns: %q", err.Error())
	}
}

func TestInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataError("dataset.Load", 10, 4)

	var insufficient *InsufficientDataError
	if !As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %T", err)
	}
	if insufficient.Required != 10 || insufficient.Got != 4 {
		t.Errorf("unexpected fields: %+v", insufficient)
	}
}

func TestArtifactUnusableError(t *testing.T) {
	err := NewArtifactUnusableError("marked removed")

	var unusable *ArtifactUnusableError
	if !As(err, &unusable) {
		t.Fatalf("expected ArtifactUnusableError, got %T", err)
	}
	if unusable.Reason != "marked removed" {
		t.Errorf("unexpected reason: %q", unusable.Reason)
	}
}

func TestServerResponseError(t *testing.T) {
	err := NewServerResponseError("/predict/channels", "predicted_k")
	if !strings.Contains(err.Error(), "predicted_k") {
		t.Errorf("message should name the missing field: %q", err.Error())
	}
}

func TestSentinelWrapping(t *testing.T) {
	err := NewModelError("algebra.Invert", "singular matrix", ErrSingularMatrix)
	if !Is(err, ErrSingularMatrix) {
		t.Error("wrapped sentinel should match with Is")
	}

	wrapped := Wrap(ErrUpstreamUnavailable, "fetching dataset")
	if !Is(wrapped, ErrUpstreamUnavailable) {
		t.Error("Wrap should preserve the sentinel")
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "testOp")
		panic("boom")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}

	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if panicErr.Operation != "testOp" {
		t.Errorf("unexpected operation: %q", panicErr.Operation)
	}
}

func TestSafeExecute(t *testing.T) {
	err := SafeExecute("safe", func() error { return nil })
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	err = SafeExecute("unsafe", func() error { panic("kaput") })
	if err == nil {
		t.Error("expected error from panicking function")
	}
}
