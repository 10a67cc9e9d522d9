package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// SessionNotFoundError is a service domain error for an unknown session id.
type SessionNotFoundError struct {
	UUID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %q not found", n.UUID)
}

// NotFoundSession returns the session UUID and true if SessionNotFoundError
// is part of the error chain.
func NotFoundSession(e error) (_ uuid.UUID, ok bool) {
	var nf *SessionNotFoundError
	if !stderr.As(e, &nf) {
		return uuid.Nil, false
	}
	return nf.UUID, true
}

// NoConnFoundError indicates that a connection id cannot be found within the context.
type NoConnFoundError struct{}

// Error is an implementation of the error interface.
func (n *NoConnFoundError) Error() string {
	return "no connection id found in context"
}
