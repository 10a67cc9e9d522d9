package mapper

import (
	"fmt"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/halpd/src/halpd/internal/errors"
	"go.lsp.dev/jsonrpc2"
)

func TestToWireErrorNil(t *testing.T) {
	assert.NoError(t, ToWireError(nil))
}

func TestToWireErrorCodes(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	tests := []struct {
		name     string
		err      error
		wantCode jsonrpc2.Code
	}{
		{
			name:     "no session id on wire",
			err:      errors.NoSessionIDOnWireError,
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:     "no query on wire",
			err:      errors.NoQueryOnWireError,
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:     "invalid input",
			err:      &errors.InvalidInputError{Field: "pid", Reason: "must be positive"},
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:     "session not found",
			err:      &errors.SessionNotFoundError{UUID: id},
			wantCode: CodeSessionNotFound,
		},
		{
			name:     "wrapped session not found",
			err:      fmt.Errorf("looking up session: %w", &errors.SessionNotFoundError{UUID: id}),
			wantCode: CodeSessionNotFound,
		},
		{
			name:     "provider unavailable",
			err:      &errors.ProviderUnavailableError{Backend: "ollama", Err: errors.New("connection refused")},
			wantCode: CodeProviderUnavailable,
		},
		{
			name:     "provider protocol violation",
			err:      &errors.ProviderProtocolError{Backend: "openai", Detail: "empty choices"},
			wantCode: CodeProviderProtocol,
		},
		{
			name:     "empty command",
			err:      &errors.EmptyCommandError{},
			wantCode: CodeEmptyCommand,
		},
		{
			name:     "unrecognized error",
			err:      errors.New("unexpected"),
			wantCode: jsonrpc2.InternalError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			e := ToWireError(tt.err)
			require.Error(t, e)

			var wireErr *jsonrpc2.Error
			require.ErrorAs(t, e, &wireErr)
			assert.Equal(t, tt.wantCode, wireErr.Code)
			assert.Contains(t, wireErr.Message, tt.err.Error())
		})
	}
}

func TestToWireErrorKeepsParseCode(t *testing.T) {
	e := ToWireError(wrapErrParse(errors.New("unexpected end of JSON input")))
	require.Error(t, e)

	var wireErr *jsonrpc2.Error
	require.ErrorAs(t, e, &wireErr)
	assert.Equal(t, jsonrpc2.ParseError, wireErr.Code)
}
