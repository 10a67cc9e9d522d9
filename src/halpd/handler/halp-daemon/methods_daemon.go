package halpdaemon

import (
	"context"

	"github.com/uber/halpd/src/halpd/model"
	"go.lsp.dev/jsonrpc2"
)

// Health answers liveness checks without touching any daemon state.
func (r *jsonRPCRouter) Health(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	return reply(ctx, &model.HealthResult{Status: model.StatusHealthy}, nil)
}

// Diagnostics reports provider reachability and session counts. A failing
// provider shows up inside the result, never as a request error.
func (r *jsonRPCRouter) Diagnostics(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result := r.diagnostics.Snapshot(ctx)
	return reply(ctx, result, nil)
}
