// Package chat implements the conversational engine.
package chat

import (
	"context"
	"strings"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	sessionmanager "github.com/uber/halpd/src/halpd/controller/session-manager"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/gateway/provider"
	"github.com/uber/halpd/src/halpd/internal/clock"
	"github.com/uber/halpd/src/halpd/internal/errors"
	"github.com/uber/halpd/src/halpd/mapper"
	"github.com/uber/halpd/src/halpd/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=chat.go -destination=chatmock/chat_mock.go -package=chatmock

const (
	_historyWindow    = 20
	_historyClipRunes = 400

	_systemPrompt = "You are a helpful assistant. Answer questions clearly and concisely."
)

// Controller answers free-text messages with conversational replies.
type Controller interface {
	Chat(ctx context.Context, id uuid.UUID, message string) (*model.ChatResult, error)
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

// New constructs a new chat engine.
func New(p Params) Controller {
	return &controller{
		sessions: p.Sessions,
		provider: p.Provider,
		logger:   p.Logger,
		scope:    p.Stats.SubScope("chat"),
		clock:    p.Clock,
	}
}

// Chat sends the message with recent session context to the provider and
// records both sides of the exchange. Nothing is appended when any step
// fails.
func (c *controller) Chat(ctx context.Context, id uuid.UUID, message string) (*model.ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, errors.NoMessageOnWireError
	}
	c.scope.Counter("requests").Inc(1)

	snapshot, err := c.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	timer := c.scope.Timer("completion_latency").Start()
	reply, err := c.provider.Complete(ctx, provider.CompletionRequest{
		System:   _systemPrompt,
		History:  mapper.RecentTurns(snapshot.Turns, _historyWindow, _historyClipRunes),
		UserText: message,
		ModeHint: entity.ModeChat,
	})
	timer.Stop()
	if err != nil {
		c.scope.Counter("errors").Inc(1)
		return nil, err
	}

	now := c.clock.Now()
	if err := c.sessions.AppendTurns(ctx, id,
		entity.Turn{Role: entity.RoleUser, Text: message, Timestamp: now},
		entity.Turn{Role: entity.RoleAssistant, Text: reply, Timestamp: now},
	); err != nil {
		return nil, err
	}

	c.logger.Infow("chat reply delivered", "session", id.String(), "replyLen", len(reply))
	return &model.ChatResult{
		Reply:  reply,
		Status: model.StatusSuccess,
	}, nil
}
