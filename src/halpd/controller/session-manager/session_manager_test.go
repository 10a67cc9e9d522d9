package sessionmanager

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/halpd/idl/mock/configmock"
	"github.com/uber/halpd/idl/mock/fxmock"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/factory"
	"github.com/uber/halpd/src/halpd/internal/clock"
	"github.com/uber/halpd/src/halpd/internal/clock/clockmock"
	"github.com/uber/halpd/src/halpd/internal/errors"
	"github.com/uber/halpd/src/halpd/model"
	"github.com/uber/halpd/src/halpd/repository/session"
	"github.com/uber/halpd/src/halpd/repository/session/repositorymock"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const _validManagerYAML = `
sessionManager:
  idleTimeoutMinutes: 15
  reclaimAfterMinutes: 60
`

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid config with reclamation",
			yaml: _validManagerYAML,
		},
		{
			name: "valid config without reclamation",
			yaml: strings.Replace(_validManagerYAML, "  reclaimAfterMinutes: 60\n", "", 1),
		},
		{
			name:    "missing idle timeout",
			yaml:    strings.Replace(_validManagerYAML, "  idleTimeoutMinutes: 15\n", "", 1),
			wantErr: "idleTimeoutMinutes must be positive",
		},
		{
			name:    "negative reclaim interval",
			yaml:    strings.Replace(_validManagerYAML, "reclaimAfterMinutes: 60", "reclaimAfterMinutes: -1", 1),
			wantErr: "reclaimAfterMinutes must not be negative",
		},
		{
			name:    "malformed block",
			yaml:    "sessionManager: 5\n",
			wantErr: `getting config field "sessionManager"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lifecycle := fxtest.NewLifecycle(t)
			_, err := New(Params{
				Lifecycle:  lifecycle,
				Shutdowner: fxmock.NewMockShutdowner(ctrl),
				Sessions:   repositorymock.NewMockRepository(ctrl),
				Logger:     zap.NewNop().Sugar(),
				Config:     newMockConfigProvider(ctrl, tt.yaml),
				Clock:      clock.New(),
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			lifecycle.RequireStart().RequireStop()
		})
	}
}

func TestCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	clockMock := clockmock.NewMockClock(ctrl)
	clockMock.EXPECT().Now().Return(now).AnyTimes()

	sessionRepository := repositorymock.NewMockRepository(ctrl)
	sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(1, nil).AnyTimes()

	c := &controller{
		sessions:           sessionRepository,
		logger:             zap.NewNop().Sugar(),
		clock:              clockMock,
		idleTimer:          time.NewTimer(time.Hour),
		idleTimeoutMinutes: time.Hour,
	}

	t.Run("success", func(t *testing.T) {
		var stored *entity.Session
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, s *entity.Session) error {
			stored = s
			return nil
		})

		snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
		require.NoError(t, err)
		assert.Equal(t, 4242, snapshot.PID)
		assert.Equal(t, "/home/dev/project", snapshot.Cwd)
		assert.Equal(t, entity.ModeExec, snapshot.Mode)
		assert.Equal(t, now, snapshot.CreatedAt)
		assert.Equal(t, now, snapshot.LastActive)
		assert.Empty(t, snapshot.Turns)
		assert.False(t, snapshot.Detached)
		require.NotNil(t, stored)
		assert.Equal(t, snapshot.UUID, stored.UUID)
	})

	t.Run("zero pid", func(t *testing.T) {
		_, err := c.Create(ctx, 0, "/home/dev/project")
		assert.True(t, errors.IsBadRequest(err))
	})

	t.Run("negative pid", func(t *testing.T) {
		_, err := c.Create(ctx, -7, "/home/dev/project")
		assert.True(t, errors.IsBadRequest(err))
	})

	t.Run("relative cwd", func(t *testing.T) {
		_, err := c.Create(ctx, 4242, "project")
		assert.True(t, errors.IsBadRequest(err))
	})

	t.Run("empty cwd", func(t *testing.T) {
		_, err := c.Create(ctx, 4242, "")
		assert.True(t, errors.IsBadRequest(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("sample"))
		_, err := c.Create(ctx, 4242, "/home/dev/project")
		assert.Error(t, err)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, session.New(tally.NoopScope), 0)

	snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		got, err := c.Get(ctx, snapshot.UUID)
		require.NoError(t, err)
		assert.Equal(t, snapshot.UUID, got.UUID)
		assert.Equal(t, entity.ModeExec, got.Mode)
	})

	t.Run("not found", func(t *testing.T) {
		missing := factory.UUID()
		_, err := c.Get(ctx, missing)
		id, ok := errors.NotFoundSession(err)
		assert.True(t, ok)
		assert.Equal(t, missing, id)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, session.New(tally.NoopScope), 0)

	first, err := c.Create(ctx, 100, "/srv/one")
	require.NoError(t, err)
	second, err := c.Create(ctx, 200, "/srv/two")
	require.NoError(t, err)

	snapshots, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, first.UUID, snapshots[0].UUID)
	assert.Equal(t, second.UUID, snapshots[1].UUID)
}

func TestSwitchMode(t *testing.T) {
	ctx := context.Background()

	t.Run("switch to chat re-activates", func(t *testing.T) {
		c := newTestController(t, session.New(tally.NoopScope), time.Hour)
		snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
		require.NoError(t, err)
		require.NoError(t, c.Detach(ctx, snapshot.UUID))

		require.NoError(t, c.SwitchMode(ctx, snapshot.UUID, "chat"))

		got, err := c.Get(ctx, snapshot.UUID)
		require.NoError(t, err)
		assert.Equal(t, entity.ModeChat, got.Mode)
		assert.False(t, got.Detached)
		assert.Equal(t, 0, c.reclaim.Len())
	})

	t.Run("unknown mode leaves session untouched", func(t *testing.T) {
		c := newTestController(t, session.New(tally.NoopScope), 0)
		snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
		require.NoError(t, err)

		err = c.SwitchMode(ctx, snapshot.UUID, "yolo")
		assert.True(t, errors.IsBadRequest(err))

		got, err := c.Get(ctx, snapshot.UUID)
		require.NoError(t, err)
		assert.Equal(t, entity.ModeExec, got.Mode)
	})

	t.Run("not found", func(t *testing.T) {
		c := newTestController(t, session.New(tally.NoopScope), 0)
		err := c.SwitchMode(ctx, factory.UUID(), "chat")
		_, ok := errors.NotFoundSession(err)
		assert.True(t, ok)
	})
}

func TestAppendTurns(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, session.New(tally.NoopScope), 0)

	snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
	require.NoError(t, err)

	t.Run("appends in order", func(t *testing.T) {
		turns := factory.Turns(2)
		require.NoError(t, c.AppendTurns(ctx, snapshot.UUID, turns...))

		got, err := c.Get(ctx, snapshot.UUID)
		require.NoError(t, err)
		require.Len(t, got.Turns, 2)
		assert.Equal(t, entity.RoleUser, got.Turns[0].Role)
		assert.Equal(t, entity.RoleAssistant, got.Turns[1].Role)
	})

	t.Run("not found", func(t *testing.T) {
		err := c.AppendTurns(ctx, factory.UUID(), factory.Turns(1)...)
		_, ok := errors.NotFoundSession(err)
		assert.True(t, ok)
	})
}

func TestDetach(t *testing.T) {
	ctx := context.Background()

	t.Run("marks session detached", func(t *testing.T) {
		c := newTestController(t, session.New(tally.NoopScope), 0)
		snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
		require.NoError(t, err)

		require.NoError(t, c.Detach(ctx, snapshot.UUID))

		got, err := c.Get(ctx, snapshot.UUID)
		require.NoError(t, err)
		assert.True(t, got.Detached)
	})

	t.Run("zero interval never schedules reclamation", func(t *testing.T) {
		c := newTestController(t, session.New(tally.NoopScope), 0)
		snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
		require.NoError(t, err)

		require.NoError(t, c.Detach(ctx, snapshot.UUID))
		assert.Equal(t, 0, c.reclaim.Len())
	})

	t.Run("not found", func(t *testing.T) {
		c := newTestController(t, session.New(tally.NoopScope), 0)
		err := c.Detach(ctx, factory.UUID())
		_, ok := errors.NotFoundSession(err)
		assert.True(t, ok)
	})
}

func TestReclaim(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes detached session after expiry", func(t *testing.T) {
		repo := session.New(tally.NoopScope)
		c := newTestController(t, repo, 20*time.Millisecond)
		snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
		require.NoError(t, err)

		require.NoError(t, c.Detach(ctx, snapshot.UUID))

		assert.Eventually(t, func() bool {
			_, err := repo.Get(ctx, snapshot.UUID)
			_, ok := errors.NotFoundSession(err)
			return ok
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("re-activation cancels reclamation", func(t *testing.T) {
		repo := session.New(tally.NoopScope)
		c := newTestController(t, repo, 30*time.Millisecond)
		snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
		require.NoError(t, err)

		require.NoError(t, c.Detach(ctx, snapshot.UUID))
		require.NoError(t, c.AppendTurns(ctx, snapshot.UUID, factory.Turns(1)...))

		time.Sleep(150 * time.Millisecond)
		got, err := c.Get(ctx, snapshot.UUID)
		require.NoError(t, err)
		assert.False(t, got.Detached)
	})

	t.Run("expiry skips session re-activated out of band", func(t *testing.T) {
		repo := session.New(tally.NoopScope)
		c := newTestController(t, repo, 20*time.Millisecond)
		snapshot, err := c.Create(ctx, 4242, "/home/dev/project")
		require.NoError(t, err)

		// Simulate an entry that outlived its session's re-activation.
		c.reclaim.Set(snapshot.UUID, time.Now(), 20*time.Millisecond)

		time.Sleep(150 * time.Millisecond)
		_, err = c.Get(ctx, snapshot.UUID)
		assert.NoError(t, err)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, session.New(tally.NoopScope), 0)

	_, err := c.Create(ctx, 100, "/srv/one")
	require.NoError(t, err)
	second, err := c.Create(ctx, 200, "/srv/two")
	require.NoError(t, err)
	third, err := c.Create(ctx, 300, "/srv/three")
	require.NoError(t, err)

	require.NoError(t, c.SwitchMode(ctx, second.UUID, "chat"))
	require.NoError(t, c.SwitchMode(ctx, third.UUID, "chat"))
	require.NoError(t, c.Detach(ctx, third.UUID))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SessionDiagnostics{
		Total:    3,
		ExecMode: 1,
		ChatMode: 2,
		Detached: 1,
	}, stats)
}

func TestRefreshIdleTimer(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	t.Run("shuts down after idle timeout", func(t *testing.T) {
		done := make(chan struct{})
		mockShutdowner := fxmock.NewMockShutdowner(ctrl)
		mockShutdowner.EXPECT().Shutdown().DoAndReturn(func(...fx.ShutdownOption) error {
			close(done)
			return nil
		})

		c := &controller{
			shutdowner:         mockShutdowner,
			logger:             zap.NewNop().Sugar(),
			idleTimeoutMinutes: 10 * time.Millisecond,
		}
		require.NoError(t, c.refreshIdleTimer(ctx))

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("idle timer never fired")
		}
	})

	t.Run("timer stopped while sessions active", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(1, nil)

		c := &controller{
			sessions:           sessionRepository,
			logger:             zap.NewNop().Sugar(),
			idleTimer:          time.NewTimer(time.Hour),
			idleTimeoutMinutes: time.Hour,
		}
		require.NoError(t, c.refreshIdleTimer(ctx))
		assert.False(t, c.idleTimer.Stop())
	})

	t.Run("timer reset when no sessions remain", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(0, nil)

		c := &controller{
			sessions:           sessionRepository,
			logger:             zap.NewNop().Sugar(),
			idleTimer:          time.NewTimer(time.Hour),
			idleTimeoutMinutes: time.Hour,
		}
		require.NoError(t, c.refreshIdleTimer(ctx))
		assert.True(t, c.idleTimer.Stop())
	})

	t.Run("session count error", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(0, errors.New("sample"))

		c := &controller{
			sessions:           sessionRepository,
			logger:             zap.NewNop().Sugar(),
			idleTimer:          time.NewTimer(time.Hour),
			idleTimeoutMinutes: time.Hour,
		}
		assert.Error(t, c.refreshIdleTimer(ctx))
	})
}

func newTestController(t *testing.T, repo session.Repository, reclaimAfter time.Duration) *controller {
	c := &controller{
		sessions:           repo,
		logger:             zap.NewNop().Sugar(),
		clock:              clock.New(),
		idleTimer:          time.NewTimer(time.Hour),
		idleTimeoutMinutes: time.Hour,
		reclaimAfter:       reclaimAfter,
	}
	c.initReclaim()
	if reclaimAfter > 0 {
		go c.reclaim.Start()
		t.Cleanup(c.reclaim.Stop)
	}
	return c
}

func newMockConfigProvider(ctrl *gomock.Controller, yamlCfg string) config.Provider {
	yamlProv, _ := config.NewYAML(config.Source(strings.NewReader(yamlCfg)))
	configProviderMock := configmock.NewMockProvider(ctrl)
	configProviderMock.EXPECT().Get(_configKeySessionManager).Return(yamlProv.Get(_configKeySessionManager)).AnyTimes()
	return configProviderMock
}
