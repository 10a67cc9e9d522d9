// Package suggest implements the shell command suggestion engine.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	sessionmanager "github.com/uber/halpd/src/halpd/controller/session-manager"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/gateway/provider"
	"github.com/uber/halpd/src/halpd/internal/clock"
	"github.com/uber/halpd/src/halpd/internal/errors"
	"github.com/uber/halpd/src/halpd/internal/safety"
	"github.com/uber/halpd/src/halpd/mapper"
	"github.com/uber/halpd/src/halpd/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=suggest.go -destination=suggestmock/suggest_mock.go -package=suggestmock

const (
	_historyWindow    = 6
	_historyClipRunes = 400

	_systemPromptFmt = "You are a terminal assistant. Convert user requests into bash commands. " +
		"Respond with ONLY the command, no explanations. Current directory: %s"
)

// Controller turns natural-language requests into classified shell commands.
type Controller interface {
	SuggestCommand(ctx context.Context, id uuid.UUID, query string) (*model.SuggestCommandResult, error)
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Sessions sessionmanager.Controller
	Provider provider.Provider
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
	Clock    clock.Clock
}

type controller struct {
	sessions sessionmanager.Controller
	provider provider.Provider
	logger   *zap.SugaredLogger
	scope    tally.Scope
	clock    clock.Clock
}

// New constructs a new suggestion engine.
func New(p Params) Controller {
	return &controller{
		sessions: p.Sessions,
		provider: p.Provider,
		logger:   p.Logger,
		scope:    p.Stats.SubScope("suggest"),
		clock:    p.Clock,
	}
}

// SuggestCommand asks the provider for a single shell command answering the
// query, classifies it, and records the exchange in the session history.
// Nothing is appended when any step fails.
func (c *controller) SuggestCommand(ctx context.Context, id uuid.UUID, query string) (*model.SuggestCommandResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.NoQueryOnWireError
	}
	c.scope.Counter("requests").Inc(1)

	snapshot, err := c.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	timer := c.scope.Timer("completion_latency").Start()
	raw, err := c.provider.Complete(ctx, provider.CompletionRequest{
		System:   fmt.Sprintf(_systemPromptFmt, snapshot.Cwd),
		History:  mapper.RecentTurns(snapshot.Turns, _historyWindow, _historyClipRunes),
		UserText: query,
		ModeHint: entity.ModeExec,
	})
	timer.Stop()
	if err != nil {
		c.scope.Counter("errors").Inc(1)
		return nil, err
	}

	command := extractCommand(raw)
	if command == "" {
		c.scope.Counter("empty_commands").Inc(1)
		return nil, &errors.EmptyCommandError{}
	}

	classification := safety.Classify(command)

	now := c.clock.Now()
	if err := c.sessions.AppendTurns(ctx, id,
		entity.Turn{Role: entity.RoleUser, Text: query, Timestamp: now},
		entity.Turn{Role: entity.RoleAssistant, Text: command, Timestamp: now},
	); err != nil {
		return nil, err
	}

	c.logger.Infow("command suggested", "session", id.String(), "tier", classification.Tier)
	return &model.SuggestCommandResult{
		Command:      command,
		SafetyTier:   string(classification.Tier),
		SafetyReason: classification.Reason,
		Status:       model.StatusSuccess,
	}, nil
}

// extractCommand pulls a single command line out of a completion that may
// carry code fences, prompt markers or surrounding prose.
func extractCommand(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimPrefix(line, "$ ")
		return strings.TrimSpace(line)
	}
	return ""
}
