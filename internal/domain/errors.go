package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrValidation           = errors.New("validation failed")
	ErrChannelTransport     = errors.New("channel transport failed")
	ErrUnknownRoom          = errors.New("unknown room type")
	ErrNoChannels           = errors.New("at least one channel must be configured")
	ErrEmailChannelRequired = errors.New("the email channel is mandatory")
)

// ValidationError reports a malformed or missing input field.
// It is raised before any network activity and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError is a small convenience for the formatter.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ChannelTransportError wraps a provider call failure: network error,
// non-success HTTP status, or a provider-reported failure flag.
type ChannelTransportError struct {
	Channel Channel
	Err     error
}

func (e *ChannelTransportError) Error() string {
	return fmt.Sprintf("%s transport: %v", e.Channel, e.Err)
}

func (e *ChannelTransportError) Unwrap() error { return e.Err }

func (e *ChannelTransportError) Is(target error) bool {
	return target == ErrChannelTransport
}

// NewTransportError wraps err for channel ch. A nil err yields nil.
func NewTransportError(ch Channel, err error) error {
	if err == nil {
		return nil
	}
	return &ChannelTransportError{Channel: ch, Err: err}
}
