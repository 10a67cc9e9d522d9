package suggest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/halpd/src/halpd/controller/session-manager/sessionmanagermock"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/factory"
	"github.com/uber/halpd/src/halpd/gateway/provider"
	"github.com/uber/halpd/src/halpd/gateway/provider/providermock"
	"github.com/uber/halpd/src/halpd/internal/clock/clockmock"
	"github.com/uber/halpd/src/halpd/internal/errors"
	"github.com/uber/halpd/src/halpd/internal/safety"
	"github.com/uber/halpd/src/halpd/model"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	assert.NotPanics(t, func() {
		New(Params{
			Stats:  tally.NewTestScope("testing", make(map[string]string, 0)),
			Logger: zap.NewNop().Sugar(),
		})
	})
}

func TestSuggestCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := sessionmanagermock.NewMockController(ctrl)
	prov := providermock.NewMockProvider(ctrl)
	clk := clockmock.NewMockClock(ctrl)

	id := factory.UUID()
	snapshot := entity.Snapshot{
		UUID:  id,
		Cwd:   "/home/dev/project",
		Turns: factory.Turns(10),
	}
	now := time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)
	query := "show the last three commits"

	var captured provider.CompletionRequest
	sessions.EXPECT().Get(gomock.Any(), id).Return(snapshot, nil)
	prov.EXPECT().Complete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req provider.CompletionRequest) (string, error) {
			captured = req
			return "```bash\ngit log -3 --oneline\n```", nil
		})
	clk.EXPECT().Now().Return(now)
	sessions.EXPECT().AppendTurns(gomock.Any(), id,
		entity.Turn{Role: entity.RoleUser, Text: query, Timestamp: now},
		entity.Turn{Role: entity.RoleAssistant, Text: "git log -3 --oneline", Timestamp: now},
	).Return(nil)

	c := controller{
		sessions: sessions,
		provider: prov,
		logger:   zap.NewNop().Sugar(),
		scope:    tally.NewTestScope("testing", make(map[string]string, 0)),
		clock:    clk,
	}

	result, err := c.SuggestCommand(context.Background(), id, query)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf(_systemPromptFmt, snapshot.Cwd), captured.System)
	assert.Equal(t, snapshot.Turns[len(snapshot.Turns)-_historyWindow:], captured.History)
	assert.Equal(t, query, captured.UserText)
	assert.Equal(t, entity.ModeExec, captured.ModeHint)

	classification := safety.Classify("git log -3 --oneline")
	assert.Equal(t, &model.SuggestCommandResult{
		Command:      "git log -3 --oneline",
		SafetyTier:   string(classification.Tier),
		SafetyReason: classification.Reason,
		Status:       model.StatusSuccess,
	}, result)
}

func TestSuggestCommandClassifiesDangerous(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := sessionmanagermock.NewMockController(ctrl)
	prov := providermock.NewMockProvider(ctrl)
	clk := clockmock.NewMockClock(ctrl)

	id := factory.UUID()
	sessions.EXPECT().Get(gomock.Any(), id).Return(entity.Snapshot{UUID: id, Cwd: "/tmp"}, nil)
	prov.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("rm -rf build", nil)
	clk.EXPECT().Now().Return(time.Now())
	sessions.EXPECT().AppendTurns(gomock.Any(), id, gomock.Any(), gomock.Any()).Return(nil)

	c := controller{
		sessions: sessions,
		provider: prov,
		logger:   zap.NewNop().Sugar(),
		scope:    tally.NewTestScope("testing", make(map[string]string, 0)),
		clock:    clk,
	}

	result, err := c.SuggestCommand(context.Background(), id, "delete the build folder")
	require.NoError(t, err)
	assert.Equal(t, string(safety.TierDangerous), result.SafetyTier)
	assert.NotEmpty(t, result.SafetyReason)
}

func TestSuggestCommandEmptyQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{
			name:  "empty string",
			query: "",
		},
		{
			name:  "whitespace only",
			query: "  \n\t ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := controller{
				logger: zap.NewNop().Sugar(),
				scope:  tally.NewTestScope("testing", make(map[string]string, 0)),
			}

			result, err := c.SuggestCommand(context.Background(), factory.UUID(), tt.query)
			assert.ErrorIs(t, err, errors.NoQueryOnWireError)
			assert.Nil(t, result)
		})
	}
}

func TestSuggestCommandSessionMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := sessionmanagermock.NewMockController(ctrl)

	id := factory.UUID()
	sessions.EXPECT().Get(gomock.Any(), id).Return(entity.Snapshot{}, &errors.SessionNotFoundError{UUID: id})

	c := controller{
		sessions: sessions,
		logger:   zap.NewNop().Sugar(),
		scope:    tally.NewTestScope("testing", make(map[string]string, 0)),
	}

	result, err := c.SuggestCommand(context.Background(), id, "list files")
	assert.Nil(t, result)
	_, ok := errors.NotFoundSession(err)
	assert.True(t, ok)
}

func TestSuggestCommandProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := sessionmanagermock.NewMockController(ctrl)
	prov := providermock.NewMockProvider(ctrl)

	id := factory.UUID()
	sessions.EXPECT().Get(gomock.Any(), id).Return(entity.Snapshot{UUID: id, Cwd: "/tmp"}, nil)
	prov.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", &errors.ProviderUnavailableError{Backend: "ollama"})

	c := controller{
		sessions: sessions,
		provider: prov,
		logger:   zap.NewNop().Sugar(),
		scope:    tally.NewTestScope("testing", make(map[string]string, 0)),
	}

	result, err := c.SuggestCommand(context.Background(), id, "list files")
	assert.Nil(t, result)
	assert.True(t, errors.IsProviderUnavailable(err))
}

func TestSuggestCommandEmptyCompletion(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := sessionmanagermock.NewMockController(ctrl)
	prov := providermock.NewMockProvider(ctrl)

	id := factory.UUID()
	sessions.EXPECT().Get(gomock.Any(), id).Return(entity.Snapshot{UUID: id, Cwd: "/tmp"}, nil)
	prov.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("```\n```", nil)

	c := controller{
		sessions: sessions,
		provider: prov,
		logger:   zap.NewNop().Sugar(),
		scope:    tally.NewTestScope("testing", make(map[string]string, 0)),
	}

	result, err := c.SuggestCommand(context.Background(), id, "list files")
	assert.Nil(t, result)

	var empty *errors.EmptyCommandError
	assert.ErrorAs(t, err, &empty)
}

func TestSuggestCommandAppendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := sessionmanagermock.NewMockController(ctrl)
	prov := providermock.NewMockProvider(ctrl)
	clk := clockmock.NewMockClock(ctrl)

	id := factory.UUID()
	sessions.EXPECT().Get(gomock.Any(), id).Return(entity.Snapshot{UUID: id, Cwd: "/tmp"}, nil)
	prov.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("ls", nil)
	clk.EXPECT().Now().Return(time.Now())
	sessions.EXPECT().AppendTurns(gomock.Any(), id, gomock.Any(), gomock.Any()).Return(&errors.SessionNotFoundError{UUID: id})

	c := controller{
		sessions: sessions,
		provider: prov,
		logger:   zap.NewNop().Sugar(),
		scope:    tally.NewTestScope("testing", make(map[string]string, 0)),
		clock:    clk,
	}

	result, err := c.SuggestCommand(context.Background(), id, "list files")
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain command",
			raw:  "git status",
			want: "git status",
		},
		{
			name: "code fence",
			raw:  "```bash\ngit log --oneline\n```",
			want: "git log --oneline",
		},
		{
			name: "dollar prompt prefix",
			raw:  "$ ls -la",
			want: "ls -la",
		},
		{
			name: "leading blank lines",
			raw:  "\n\n  make build\n",
			want: "make build",
		},
		{
			name: "multiline keeps first command",
			raw:  "cd /tmp\nrm foo",
			want: "cd /tmp",
		},
		{
			name: "fence only",
			raw:  "```\n```",
			want: "",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCommand(tt.raw))
		})
	}
}
