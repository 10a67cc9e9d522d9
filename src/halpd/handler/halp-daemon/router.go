package halpdaemon

import (
	"context"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/halpd/src/halpd/controller/chat"
	"github.com/uber/halpd/src/halpd/controller/diagnostics"
	sessionmanager "github.com/uber/halpd/src/halpd/controller/session-manager"
	"github.com/uber/halpd/src/halpd/controller/suggest"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/mapper"
	"go.lsp.dev/jsonrpc2"
)

// Method names served by the daemon's JSON-RPC API.
const (
	MethodHealth         = "daemon/health"
	MethodDiagnostics    = "daemon/diagnostics"
	MethodCreateSession  = "session/create"
	MethodListSessions   = "session/list"
	MethodGetSession     = "session/get"
	MethodSwitchMode     = "session/switchMode"
	MethodDetachSession  = "session/detach"
	MethodSuggestCommand = "assist/suggestCommand"
	MethodChat           = "assist/chat"
)

type jsonRPCRouter struct {
	sessions    sessionmanager.Controller
	suggest     suggest.Controller
	chat        chat.Controller
	diagnostics diagnostics.Controller
	uuid        uuid.UUID
	stats       tally.Scope
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.ConnContextKey, r.uuid)

	// Domain errors leave every method as wire errors with stable codes.
	reply = wireReplier(reply)

	switch req.Method() {
	// Daemon methods.
	case MethodHealth:
		return r.Health(ctx, reply, req)

	case MethodDiagnostics:
		return r.Diagnostics(ctx, reply, req)

	// Session methods.
	case MethodCreateSession:
		return r.CreateSession(ctx, reply, req)

	case MethodListSessions:
		return r.ListSessions(ctx, reply, req)

	case MethodGetSession:
		return r.GetSession(ctx, reply, req)

	case MethodSwitchMode:
		return r.SwitchMode(ctx, reply, req)

	case MethodDetachSession:
		return r.DetachSession(ctx, reply, req)

	// Assistance methods.
	case MethodSuggestCommand:
		return r.SuggestCommand(ctx, reply, req)

	case MethodChat:
		return r.Chat(ctx, reply, req)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}

func wireReplier(reply jsonrpc2.Replier) jsonrpc2.Replier {
	return func(ctx context.Context, result interface{}, err error) error {
		return reply(ctx, result, mapper.ToWireError(err))
	}
}
