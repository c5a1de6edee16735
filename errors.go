package jsondoc

import (
	"errors"
	"fmt"
)

// Core error definitions
var (
	// Syntax errors for textual and binary input
	ErrParse = errors.New("parse error")

	// Addressing syntax errors
	ErrPointerInvalid       = errors.New("invalid JSON pointer")
	ErrFieldSelectorInvalid = errors.New("invalid field selector")

	// Reader errors
	ErrMissingField = errors.New("missing field")
	ErrTypeMismatch = errors.New("type mismatch")

	// Caller errors
	ErrIllegalArgument = errors.New("illegal argument")
	ErrSizeLimit       = errors.New("size limit exceeded")
	ErrDepthLimit      = errors.New("depth limit exceeded")
	ErrProcessorClosed = errors.New("processor is closed")
)

// ParseError reports malformed textual or binary input.
type ParseError struct {
	Description string // Human-readable description
	Offset      int64  // Byte offset of the failure, -1 if unknown
	Err         error  // Underlying cause, may be nil
}

// NewParseError creates a ParseError without a known offset.
func NewParseError(description string, cause error) *ParseError {
	return &ParseError{Description: description, Offset: -1, Err: cause}
}

func (e *ParseError) Error() string {
	msg := "failed to parse JSON: " + e.Description
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s (at offset %d)", msg, e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain support
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse as a match for every ParseError
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// PointerInvalidError reports a syntactically invalid JSON pointer.
type PointerInvalidError struct {
	Pointer     string
	Description string
}

func (e *PointerInvalidError) Error() string {
	return fmt.Sprintf("JSON pointer <%s> is invalid: %s", e.Pointer, e.Description)
}

func (e *PointerInvalidError) Is(target error) bool {
	return target == ErrPointerInvalid
}

// FieldSelectorInvalidError reports a syntactically invalid field selector.
type FieldSelectorInvalidError struct {
	Selector    string
	Description string
	Err         error
}

func (e *FieldSelectorInvalidError) Error() string {
	msg := fmt.Sprintf("JSON field selector <%s> is invalid: %s", e.Selector, e.Description)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldSelectorInvalidError) Unwrap() error {
	return e.Err
}

func (e *FieldSelectorInvalidError) Is(target error) bool {
	return target == ErrFieldSelectorInvalid
}

// MissingFieldError reports that a required field is absent.
type MissingFieldError struct {
	Pointer Pointer
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("JSON object does not include a value for the required field <%s>", e.Pointer)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// TypeMismatchError reports a narrowing accessor called on the wrong variant.
type TypeMismatchError struct {
	Expected Kind
	Actual   Kind
	Value    Value
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected a JSON %s but got %s: %s", e.Expected, e.Actual, truncate(e.Value.String(), 64))
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// OperationError wraps a failure with the processor operation and path it occurred in.
type OperationError struct {
	Op   string // Operation that failed
	Path string // Pointer or selector involved, may be empty
	Err  error  // Underlying error
}

func (e *OperationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("jsondoc %s failed at '%s': %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("jsondoc %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// newOperationError creates an OperationError, nil when err is nil
func newOperationError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Path: path, Err: err}
}

func newTypeMismatch(expected Kind, actual Value) error {
	return &TypeMismatchError{Expected: expected, Actual: actual.Kind(), Value: actual}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
