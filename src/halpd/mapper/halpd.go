package mapper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/internal/errors"
	"github.com/uber/halpd/src/halpd/model"
	"go.lsp.dev/jsonrpc2"
)

// RequestToCreateSessionParams maps the parameters from a jsonrpc2.Request into model.CreateSessionParams.
func RequestToCreateSessionParams(req jsonrpc2.Request) (*model.CreateSessionParams, error) {
	params := model.CreateSessionParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToGetSessionParams maps the parameters from a jsonrpc2.Request into model.GetSessionParams.
func RequestToGetSessionParams(req jsonrpc2.Request) (*model.GetSessionParams, error) {
	params := model.GetSessionParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToSwitchModeParams maps the parameters from a jsonrpc2.Request into model.SwitchModeParams.
func RequestToSwitchModeParams(req jsonrpc2.Request) (*model.SwitchModeParams, error) {
	params := model.SwitchModeParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDetachParams maps the parameters from a jsonrpc2.Request into model.DetachParams.
func RequestToDetachParams(req jsonrpc2.Request) (*model.DetachParams, error) {
	params := model.DetachParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToSuggestCommandParams maps the parameters from a jsonrpc2.Request into model.SuggestCommandParams.
func RequestToSuggestCommandParams(req jsonrpc2.Request) (*model.SuggestCommandParams, error) {
	params := model.SuggestCommandParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToChatParams maps the parameters from a jsonrpc2.Request into model.ChatParams.
func RequestToChatParams(req jsonrpc2.Request) (*model.ChatParams, error) {
	params := model.ChatParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// SessionIDToUUID parses a wire session id into a uuid.UUID.
func SessionIDToUUID(id string) (uuid.UUID, error) {
	if id == "" {
		return uuid.Nil, errors.NoSessionIDOnWireError
	}

	parsed, err := uuid.FromString(id)
	if err != nil {
		return uuid.Nil, &errors.InvalidInputError{Field: "sessionId", Reason: "must be a UUID"}
	}
	return parsed, nil
}

// SnapshotToSummary maps a session snapshot to its wire summary.
func SnapshotToSummary(s entity.Snapshot) model.SessionSummary {
	return model.SessionSummary{
		SessionID:  s.UUID.String(),
		PID:        s.PID,
		Cwd:        s.Cwd,
		Mode:       string(s.Mode),
		TurnCount:  len(s.Turns),
		Detached:   s.Detached,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive,
	}
}

// SnapshotsToSummaries maps session snapshots to wire summaries, preserving order.
func SnapshotsToSummaries(snapshots []entity.Snapshot) []model.SessionSummary {
	summaries := make([]model.SessionSummary, 0, len(snapshots))
	for _, s := range snapshots {
		summaries = append(summaries, SnapshotToSummary(s))
	}
	return summaries
}

// RecentTurns bounds a history to its most recent max turns, kept in
// chronological order, with each turn's text clipped to clipRunes runes.
func RecentTurns(turns []entity.Turn, max, clipRunes int) []entity.Turn {
	if len(turns) > max {
		turns = turns[len(turns)-max:]
	}
	bounded := make([]entity.Turn, len(turns))
	copy(bounded, turns)
	for i := range bounded {
		if r := []rune(bounded[i].Text); len(r) > clipRunes {
			bounded[i].Text = string(r[:clipRunes]) + "..."
		}
	}
	return bounded
}

// ContextToConnUUID extracts the connection UUID from a context.
func ContextToConnUUID(c context.Context) (uuid.UUID, error) {
	id, ok := c.Value(entity.ConnContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoConnFoundError{}
	}
	return id, nil
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%w: %s", jsonrpc2.ErrParse, err)
}
