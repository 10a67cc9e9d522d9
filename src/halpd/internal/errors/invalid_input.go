package errors

import "fmt"

// InvalidInputError indicates a malformed caller-supplied value. The caller
// must correct the request; retrying unchanged will fail again.
type InvalidInputError struct {
	Field  string
	Reason string
}

// Error is an implementation of the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
