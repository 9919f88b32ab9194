package profilekit

import (
	"errors"
	"fmt"
)

// Sentinel errors for ProfileKit operations.
var (
	// ErrUnknownCriterion is returned when a filter keyword cannot be resolved
	// to a column, an alias, or a prefixed column name.
	ErrUnknownCriterion = errors.New("profilekit: unknown criterion")

	// ErrUnsupportedOperation is returned when profile resolution is requested
	// on a frame kind that has no resolution semantics.
	ErrUnsupportedOperation = errors.New("profilekit: unsupported operation")

	// ErrInvalidArguments is returned when a resolver query has the wrong
	// shape for the frame kind.
	ErrInvalidArguments = errors.New("profilekit: invalid arguments")

	// ErrInvalidName is returned when a dataset name lacks the required
	// qualifier separator.
	ErrInvalidName = errors.New("profilekit: invalid name")

	// ErrInvalidFrame is returned when a frame spec is malformed or frames
	// with different schemas are combined.
	ErrInvalidFrame = errors.New("profilekit: invalid frame")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err     error  // Underlying sentinel error
	Message string // Additional context
	Keyword string // Filter keyword involved (if applicable)
	Frame   string // Frame kind involved (if applicable)
	Name    string // Resource or dataset name involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithKeyword adds the offending filter keyword to the error.
func (e *Error) WithKeyword(keyword string) *Error {
	e.Keyword = keyword
	return e
}

// WithFrame adds the frame kind to the error.
func (e *Error) WithFrame(kind Kind) *Error {
	e.Frame = kind.String()
	return e
}

// WithName adds the queried resource or dataset name to the error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// IsUnknownCriterion checks if an error is due to an unresolvable keyword.
func IsUnknownCriterion(err error) bool {
	return errors.Is(err, ErrUnknownCriterion)
}

// IsUnsupportedOperation checks if an error is due to an incompatible frame kind.
func IsUnsupportedOperation(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// IsInvalidArguments checks if an error is due to a malformed resolver query.
func IsInvalidArguments(err error) bool {
	return errors.Is(err, ErrInvalidArguments)
}

// IsInvalidName checks if an error is due to an unqualified dataset name.
func IsInvalidName(err error) bool {
	return errors.Is(err, ErrInvalidName)
}
