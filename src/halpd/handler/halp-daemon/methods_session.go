package halpdaemon

import (
	"context"

	"github.com/uber/halpd/src/halpd/mapper"
	"github.com/uber/halpd/src/halpd/model"
	"go.lsp.dev/jsonrpc2"
)

// CreateSession registers a new session for the calling terminal and returns its id.
func (r *jsonRPCRouter) CreateSession(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToCreateSessionParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	snapshot, err := r.sessions.Create(ctx, params.PID, params.Cwd)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result := model.CreateSessionResult{
		SessionID: snapshot.UUID.String(),
		Status:    model.StatusSuccess,
	}
	return reply(ctx, &result, nil)
}

// ListSessions returns summaries of all registered sessions in creation order.
func (r *jsonRPCRouter) ListSessions(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	snapshots, err := r.sessions.List(ctx)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result := model.ListSessionsResult{
		Sessions: mapper.SnapshotsToSummaries(snapshots),
		Status:   model.StatusSuccess,
	}
	return reply(ctx, &result, nil)
}

// GetSession returns the summary of a single session.
func (r *jsonRPCRouter) GetSession(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToGetSessionParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	id, err := mapper.SessionIDToUUID(params.SessionID)
	if err != nil {
		return reply(ctx, nil, err)
	}

	snapshot, err := r.sessions.Get(ctx, id)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result := model.GetSessionResult{
		Session: mapper.SnapshotToSummary(snapshot),
		Status:  model.StatusSuccess,
	}
	return reply(ctx, &result, nil)
}

// SwitchMode flips a session between exec and chat.
func (r *jsonRPCRouter) SwitchMode(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToSwitchModeParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	id, err := mapper.SessionIDToUUID(params.SessionID)
	if err != nil {
		return reply(ctx, nil, err)
	}

	if err := r.sessions.SwitchMode(ctx, id, params.Mode); err != nil {
		return reply(ctx, nil, err)
	}

	return reply(ctx, &model.StatusResult{Status: model.StatusSuccess}, nil)
}

// DetachSession marks a session as detached so it becomes eligible for reclamation.
func (r *jsonRPCRouter) DetachSession(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDetachParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	id, err := mapper.SessionIDToUUID(params.SessionID)
	if err != nil {
		return reply(ctx, nil, err)
	}

	if err := r.sessions.Detach(ctx, id); err != nil {
		return reply(ctx, nil, err)
	}

	return reply(ctx, &model.StatusResult{Status: model.StatusSuccess}, nil)
}
