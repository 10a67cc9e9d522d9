package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoSessionIDOnWireError reports that the request is missing a session id.
	NoSessionIDOnWireError = New("session id is required")
	// NoQueryOnWireError reports that the request is missing query text.
	NoQueryOnWireError = New("no query on wire")
	// NoMessageOnWireError reports that the request is missing a message.
	NoMessageOnWireError = New("no message on wire")
)

// IsBadRequest reports whether the error is a bad request from the caller.
func IsBadRequest(e error) bool {
	if stderr.Is(e, NoSessionIDOnWireError) || stderr.Is(e, NoQueryOnWireError) || stderr.Is(e, NoMessageOnWireError) {
		return true
	}
	var invalid *InvalidInputError
	return stderr.As(e, &invalid)
}
