// Package errors provides structured error handling for the sales-prediction
// engine. Errors carry enough context to be logged as structured events and
// are built on cockroachdb/errors so every constructor attaches a stack trace.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NotInitializedError is returned when a prediction or metrics read is
// requested before the model provider has been initialized successfully.
type NotInitializedError struct {
	Component string
	Method    string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("salespred: %s: model is not initialized. Call Initialize() before using %s()", e.Component, e.Method)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *NotInitializedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("component", e.Component).
		Str("method", e.Method).
		Str("type", "NotInitializedError")
}

// NewNotInitializedError creates a new NotInitializedError with a stack trace.
func NewNotInitializedError(component, method string) error {
	err := &NotInitializedError{Component: component, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when matrix or vector shapes disagree.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("salespred: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// InsufficientDataError is returned when the dataset has fewer valid rows than
// the minimum required for a stable fit.
type InsufficientDataError struct {
	Op       string
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("salespred: %s: insufficient data: need at least %d valid rows, got %d", e.Op, e.Required, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("required", e.Required).
		Int("got", e.Got).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError creates a new InsufficientDataError with a stack trace.
func NewInsufficientDataError(op string, required, got int) error {
	err := &InsufficientDataError{Op: op, Required: required, Got: got}
	return errors.WithStack(err)
}

// ArtifactUnusableError is returned when a model artifact exists but cannot be
// adopted, either because it is marked removed or because its payload is
// malformed. Callers recover by fitting from the raw dataset instead.
type ArtifactUnusableError struct {
	Reason string
}

func (e *ArtifactUnusableError) Error() string {
	return fmt.Sprintf("salespred: artifact unusable: %s", e.Reason)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ArtifactUnusableError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("reason", e.Reason).
		Str("type", "ArtifactUnusableError")
}

// NewArtifactUnusableError creates a new ArtifactUnusableError with a stack trace.
func NewArtifactUnusableError(reason string) error {
	err := &ArtifactUnusableError{Reason: reason}
	return errors.WithStack(err)
}

// ServerResponseError is returned when the remote prediction endpoint replies
// without the expected numeric prediction field.
type ServerResponseError struct {
	Endpoint string
	Field    string
}

func (e *ServerResponseError) Error() string {
	return fmt.Sprintf("salespred: invalid server response from %s: missing or non-numeric field %q", e.Endpoint, e.Field)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ServerResponseError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("endpoint", e.Endpoint).
		Str("field", e.Field).
		Str("type", "ServerResponseError")
}

// NewServerResponseError creates a new ServerResponseError with a stack trace.
func NewServerResponseError(endpoint, field string) error {
	err := &ServerResponseError{Endpoint: endpoint, Field: field}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is inappropriate or invalid.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("salespred: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general error raised while building or applying a model.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("salespred: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("salespred: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a new ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches the target error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be assigned to the target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrSingularMatrix is returned when Gauss-Jordan elimination meets a
	// pivot too small to invert the matrix.
	ErrSingularMatrix = New("singular matrix")

	// ErrEmptyData is returned when an operation receives no data.
	ErrEmptyData = New("empty data")

	// ErrUpstreamUnavailable is returned when the dataset, artifact, or remote
	// prediction endpoint cannot be reached.
	ErrUpstreamUnavailable = New("upstream unavailable")
)
