package halpdaemon

import (
	"context"

	"github.com/uber/halpd/src/halpd/mapper"
	"go.lsp.dev/jsonrpc2"
)

// SuggestCommand converts a natural-language request into a classified shell command.
func (r *jsonRPCRouter) SuggestCommand(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToSuggestCommandParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	id, err := mapper.SessionIDToUUID(params.SessionID)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.suggest.SuggestCommand(ctx, id, params.Query)
	return reply(ctx, result, err)
}

// Chat answers a free-text message in the session's conversational context.
func (r *jsonRPCRouter) Chat(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToChatParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	id, err := mapper.SessionIDToUUID(params.SessionID)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.chat.Chat(ctx, id, params.Message)
	return reply(ctx, result, err)
}
