package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError is the rich error type carried through the service layers.
// Message is for operators, Hint is safe to surface to API consumers, and
// ReportableDetails holds structured context for the error response.
type InternalError struct {
	Message           string
	Hint              string
	ReportableDetails map[string]interface{}
	cause             error
}

func (e *InternalError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause.Error())
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// ErrorBuilder provides a fluent API for building internal errors.
// Every builder chain must end with Mark() so the error carries a class.
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts building an error with the given operator message.
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{Message: message}}
}

// NewErrorf starts building an error with a formatted operator message.
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return NewError(fmt.Sprintf(format, args...))
}

// WithError starts building an error that wraps an underlying cause.
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{
		Message: err.Error(),
		cause:   err,
	}}
}

// WithHint attaches a consumer-safe hint message.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.Hint = hint
	return b
}

// WithHintf attaches a formatted consumer-safe hint message.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err.Hint = fmt.Sprintf(format, args...)
	return b
}

// WithReportableDetails attaches structured details included in responses.
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.err.ReportableDetails = details
	return b
}

// Mark finalizes the builder, tagging the error with the given sentinel so
// errors.Is checks and HTTP status mapping work across wrap boundaries.
func (b *ErrorBuilder) Mark(sentinel error) error {
	return errors.Mark(b.err, sentinel)
}
