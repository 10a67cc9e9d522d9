package mapper

import (
	stderr "errors"

	"github.com/uber/halpd/src/halpd/internal/errors"
	"go.lsp.dev/jsonrpc2"
)

// Daemon-specific JSON-RPC error codes. These sit in the reserved
// server-error range and are part of the wire contract, so they must stay
// stable across releases.
const (
	CodeSessionNotFound     jsonrpc2.Code = -32001
	CodeProviderUnavailable jsonrpc2.Code = -32002
	CodeProviderProtocol    jsonrpc2.Code = -32003
	CodeEmptyCommand        jsonrpc2.Code = -32004
)

// ToWireError translates service domain errors into JSON-RPC error objects with stable codes.
func ToWireError(e error) error {
	if e == nil {
		return nil
	}

	if errors.IsBadRequest(e) {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, e.Error())
	}

	if _, ok := errors.NotFoundSession(e); ok {
		return jsonrpc2.NewError(CodeSessionNotFound, e.Error())
	}

	if errors.IsProviderUnavailable(e) {
		return jsonrpc2.NewError(CodeProviderUnavailable, e.Error())
	}

	var protocolErr *errors.ProviderProtocolError
	if stderr.As(e, &protocolErr) {
		return jsonrpc2.NewError(CodeProviderProtocol, e.Error())
	}

	var emptyErr *errors.EmptyCommandError
	if stderr.As(e, &emptyErr) {
		return jsonrpc2.NewError(CodeEmptyCommand, e.Error())
	}

	var wireErr *jsonrpc2.Error
	if stderr.As(e, &wireErr) {
		// Request parse failures already carry a wire code.
		return e
	}

	return jsonrpc2.NewError(jsonrpc2.InternalError, e.Error())
}
