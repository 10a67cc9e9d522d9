package errors

import (
	stderr "errors"
	"fmt"
)

// ProviderUnavailableError indicates that the model backend could not be
// reached or timed out. The request may be retried later; the daemon does
// not retry it internally.
type ProviderUnavailableError struct {
	Backend string
	Err     error
}

// Error is an implementation of the error interface.
func (e *ProviderUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %q unavailable", e.Backend)
	}
	return fmt.Sprintf("provider %q unavailable: %v", e.Backend, e.Err)
}

// Unwrap exposes the transport cause.
func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

// IsProviderUnavailable reports whether the error chain contains a
// ProviderUnavailableError.
func IsProviderUnavailable(e error) bool {
	var pu *ProviderUnavailableError
	return stderr.As(e, &pu)
}

// ProviderProtocolError indicates that the backend responded but the payload
// was unusable. Not retried.
type ProviderProtocolError struct {
	Backend string
	Detail  string
}

// Error is an implementation of the error interface.
func (e *ProviderProtocolError) Error() string {
	return fmt.Sprintf("provider %q protocol error: %s", e.Backend, e.Detail)
}

// EmptyCommandError indicates that the provider produced no actionable
// command for a suggestion request.
type EmptyCommandError struct{}

// Error is an implementation of the error interface.
func (e *EmptyCommandError) Error() string {
	return "provider returned no actionable command"
}
