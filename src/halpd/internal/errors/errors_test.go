package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fmtWrap(err error) error {
	return fmt.Errorf("wrapped: %w", err)
}

func TestIsBadRequest(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "missing session id",
			err:  NoSessionIDOnWireError,
			want: true,
		},
		{
			name: "missing query",
			err:  fmtWrap(NoQueryOnWireError),
			want: true,
		},
		{
			name: "invalid input",
			err:  &InvalidInputError{Field: "mode", Reason: "unknown mode \"vim\""},
			want: true,
		},
		{
			name: "other error",
			err:  New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBadRequest(tt.err))
		})
	}
}

func TestInvalidInputError(t *testing.T) {
	err := &InvalidInputError{Field: "pid", Reason: "must be positive"}
	assert.Equal(t, "invalid pid: must be positive", err.Error())
}

func TestProviderUnavailableError(t *testing.T) {
	cause := New("dial tcp 127.0.0.1:11434: connection refused")
	err := &ProviderUnavailableError{Backend: "ollama", Err: cause}

	assert.Contains(t, err.Error(), "ollama")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsProviderUnavailable(fmtWrap(err)))
	assert.False(t, IsProviderUnavailable(New("other")))

	bare := &ProviderUnavailableError{Backend: "openai"}
	assert.Equal(t, `provider "openai" unavailable`, bare.Error())
}

func TestProviderProtocolError(t *testing.T) {
	err := &ProviderProtocolError{Backend: "anthropic", Detail: "empty content array"}
	assert.Equal(t, `provider "anthropic" protocol error: empty content array`, err.Error())
}

func TestEmptyCommandError(t *testing.T) {
	err := &EmptyCommandError{}
	assert.Equal(t, "provider returned no actionable command", err.Error())
}
