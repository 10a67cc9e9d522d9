// Package sessionmanager implements session lifecycle and history bookkeeping.
package sessionmanager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jellydator/ttlcache/v3"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/internal/clock"
	"github.com/uber/halpd/src/halpd/internal/errors"
	"github.com/uber/halpd/src/halpd/model"
	"github.com/uber/halpd/src/halpd/repository/session"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=session_manager.go -destination=sessionmanagermock/session_manager_mock.go -package=sessionmanagermock

const _configKeySessionManager = "sessionManager"

// Controller owns session lifecycle and all mutation of session state.
// Mutations on the same session are serialized by the session's own mutex;
// callers only ever receive deep-copied snapshots.
type Controller interface {
	// Create registers a new session in mode exec with empty history.
	Create(ctx context.Context, pid int, cwd string) (entity.Snapshot, error)
	// Get returns a point-in-time copy of the session, history included.
	Get(ctx context.Context, id uuid.UUID) (entity.Snapshot, error)
	// List returns snapshots of all sessions in creation order.
	List(ctx context.Context) ([]entity.Snapshot, error)
	// SwitchMode sets the session's mode and re-activates it if detached.
	SwitchMode(ctx context.Context, id uuid.UUID, mode string) error
	// AppendTurns appends history entries and re-activates the session.
	AppendTurns(ctx context.Context, id uuid.UUID, turns ...entity.Turn) error
	// Detach marks the session inactive and schedules reclamation.
	Detach(ctx context.Context, id uuid.UUID) error
	// Stats returns aggregate counts across all sessions.
	Stats(ctx context.Context) (model.SessionDiagnostics, error)
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Sessions   session.Repository
	Logger     *zap.SugaredLogger
	Config     config.Provider
	Clock      clock.Clock
}

type managerConfig struct {
	IdleTimeoutMinutes  int64 `yaml:"idleTimeoutMinutes"`
	ReclaimAfterMinutes int64 `yaml:"reclaimAfterMinutes"`
}

type controller struct {
	sessions           session.Repository
	shutdowner         fx.Shutdowner
	logger             *zap.SugaredLogger
	clock              clock.Clock
	idleTimer          *time.Timer
	idleTimerMu        sync.Mutex
	idleTimeoutMinutes time.Duration
	reclaimAfter       time.Duration
	reclaim            *ttlcache.Cache[uuid.UUID, time.Time]
}

// New constructs a new session manager controller.
func New(p Params) (Controller, error) {
	ctx := context.Background()

	var cfg managerConfig
	if err := p.Config.Get(_configKeySessionManager).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeySessionManager, err)
	}
	if cfg.IdleTimeoutMinutes <= 0 {
		return nil, errors.New("sessionManager idleTimeoutMinutes must be positive")
	}
	if cfg.ReclaimAfterMinutes < 0 {
		return nil, errors.New("sessionManager reclaimAfterMinutes must not be negative")
	}

	c := &controller{
		sessions:           p.Sessions,
		shutdowner:         p.Shutdowner,
		logger:             p.Logger,
		clock:              p.Clock,
		idleTimeoutMinutes: time.Duration(cfg.IdleTimeoutMinutes) * time.Minute,
		reclaimAfter:       time.Duration(cfg.ReclaimAfterMinutes) * time.Minute,
	}
	c.initReclaim()
	c.refreshIdleTimer(ctx)

	if c.reclaimAfter > 0 {
		go c.reclaim.Start()
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				c.reclaim.Stop()
				return nil
			},
		})
	}

	return c, nil
}

// Create validates the caller's identity fields and registers a new session.
func (c *controller) Create(ctx context.Context, pid int, cwd string) (entity.Snapshot, error) {
	defer c.refreshIdleTimer(ctx)

	if pid <= 0 {
		return entity.Snapshot{}, &errors.InvalidInputError{Field: "pid", Reason: "must be positive"}
	}
	if cwd == "" || !filepath.IsAbs(cwd) {
		return entity.Snapshot{}, &errors.InvalidInputError{Field: "cwd", Reason: "must be an absolute path"}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return entity.Snapshot{}, err
	}

	s := entity.NewSession(id, pid, cwd, c.clock.Now())
	if err := c.sessions.Set(ctx, s); err != nil {
		return entity.Snapshot{}, err
	}

	c.logger.Infow("session created", "session", id.String(), "pid", pid, "cwd", cwd)
	return s.Snapshot(), nil
}

// Get returns a deep copy of the session's current state.
func (c *controller) Get(ctx context.Context, id uuid.UUID) (entity.Snapshot, error) {
	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return entity.Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// List returns snapshots of all sessions in creation order.
func (c *controller) List(ctx context.Context) ([]entity.Snapshot, error) {
	sessions, err := c.sessions.All(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]entity.Snapshot, 0, len(sessions))
	for _, s := range sessions {
		snapshots = append(snapshots, s.Snapshot())
	}
	return snapshots, nil
}

// SwitchMode sets the session's mode. An unknown mode string leaves the
// session untouched.
func (c *controller) SwitchMode(ctx context.Context, id uuid.UUID, mode string) error {
	parsed, ok := entity.ParseMode(mode)
	if !ok {
		return &errors.InvalidInputError{Field: "mode", Reason: `must be "exec" or "chat"`}
	}

	c.cancelReclaim(id)
	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	s.SwitchMode(parsed, c.clock.Now())
	c.logger.Infow("session mode switched", "session", id.String(), "mode", mode)
	return nil
}

// AppendTurns appends history entries under the session's mutex.
func (c *controller) AppendTurns(ctx context.Context, id uuid.UUID, turns ...entity.Turn) error {
	c.cancelReclaim(id)
	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	s.AppendTurns(c.clock.Now(), turns...)
	return nil
}

// Detach marks the session inactive. It stays joinable until reclaimed.
func (c *controller) Detach(ctx context.Context, id uuid.UUID) error {
	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	now := c.clock.Now()
	s.Detach(now)
	c.scheduleReclaim(id, now)
	c.logger.Infow("session detached", "session", id.String())
	return nil
}

// Stats folds all sessions into aggregate counts.
func (c *controller) Stats(ctx context.Context) (model.SessionDiagnostics, error) {
	sessions, err := c.sessions.All(ctx)
	if err != nil {
		return model.SessionDiagnostics{}, err
	}

	stats := model.SessionDiagnostics{Total: len(sessions)}
	for _, s := range sessions {
		snapshot := s.Snapshot()
		switch snapshot.Mode {
		case entity.ModeExec:
			stats.ExecMode++
		case entity.ModeChat:
			stats.ChatMode++
		}
		if snapshot.Detached {
			stats.Detached++
		}
	}
	return stats, nil
}

// refreshIdleTimer ensures that the daemon shuts down after a defined
// inactivity period with no sessions.
func (c *controller) refreshIdleTimer(ctx context.Context) error {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	// First call initializes new timer and leaves it running prior to first session.
	if c.idleTimer == nil {
		c.idleTimer = time.NewTimer(c.idleTimeoutMinutes)
		go func() {
			<-c.idleTimer.C
			c.logger.Info("Shutdown signal received.")
			if err := c.shutdowner.Shutdown(); err != nil {
				os.Exit(1)
			}
		}()
		return nil
	}

	// Subsequent calls stop the timer and reset it only if no sessions remain.
	currentSessions, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("error resetting timeout: %w", err)
	}

	c.idleTimer.Stop()
	if currentSessions == 0 {
		c.idleTimer.Reset(c.idleTimeoutMinutes)
	}
	return nil
}
