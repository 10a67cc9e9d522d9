package provider

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/halpd/src/halpd/internal/clock"
	"github.com/uber/halpd/src/halpd/internal/errors"
	"github.com/uber/halpd/src/halpd/internal/executor"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	_launchKey = "launch"
	_serveArg  = "serve"

	_launchAttempts  = 10
	_launchBaseDelay = 500 * time.Millisecond
	_launchMaxDelay  = 5 * time.Second
)

// autostart wraps the local backend and boots its server the first time it
// is found unreachable. The launch happens at most once per daemon lifetime;
// concurrent triggers share one in-flight launch and observe the same
// outcome.
type autostart struct {
	inner    Provider
	binPath  string
	executor executor.Executor
	clock    clock.Clock
	logger   *zap.SugaredLogger
	scope    tally.Scope

	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration

	group     singleflight.Group
	mu        sync.Mutex
	attempted bool
	outcome   error
}

func newAutostart(inner Provider, binPath string, exc executor.Executor, clk clock.Clock, logger *zap.SugaredLogger, scope tally.Scope) *autostart {
	return &autostart{
		inner:     inner,
		binPath:   binPath,
		executor:  exc,
		clock:     clk,
		logger:    logger,
		scope:     scope,
		attempts:  _launchAttempts,
		baseDelay: _launchBaseDelay,
		maxDelay:  _launchMaxDelay,
	}
}

func (a *autostart) Name() string {
	return a.inner.Name()
}

func (a *autostart) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	text, err := a.inner.Complete(ctx, req)
	if err == nil || !errors.IsProviderUnavailable(err) {
		return text, err
	}
	if berr := a.bootstrap(ctx); berr != nil {
		return "", berr
	}
	return a.inner.Complete(ctx, req)
}

func (a *autostart) Probe(ctx context.Context) ProbeResult {
	res := a.inner.Probe(ctx)
	if res.Reachable {
		return res
	}
	if err := a.bootstrap(ctx); err != nil {
		return ProbeResult{Detail: err.Error(), Latency: res.Latency}
	}
	return a.inner.Probe(ctx)
}

// bootstrap coalesces concurrent launch triggers. A caller whose context
// expires stops waiting, but the launch itself keeps running to completion
// so the server still comes up for later requests.
func (a *autostart) bootstrap(ctx context.Context) error {
	ch := a.group.DoChan(_launchKey, func() (interface{}, error) {
		a.mu.Lock()
		attempted, outcome := a.attempted, a.outcome
		a.mu.Unlock()
		if attempted {
			return nil, outcome
		}

		outcome = a.launchAndWait()
		a.mu.Lock()
		a.attempted, a.outcome = true, outcome
		a.mu.Unlock()
		return nil, outcome
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return &errors.ProviderUnavailableError{Backend: a.Name(), Err: ctx.Err()}
	}
}

// launchAndWait starts the server binary and polls until it answers probes.
// It runs detached from any request context; each probe is individually
// bounded by the probe client timeout.
func (a *autostart) launchAndWait() error {
	ctx := context.Background()
	if probe := a.inner.Probe(ctx); probe.Reachable {
		return nil
	}

	a.logger.Infow("starting local provider server", zap.String("bin", a.binPath))
	a.scope.Counter("autostart_launches").Inc(1)
	if err := a.executor.StartCommand(exec.Command(a.binPath, _serveArg), os.Environ()); err != nil {
		return &errors.ProviderUnavailableError{Backend: a.Name(), Err: fmt.Errorf("starting %s: %w", a.binPath, err)}
	}

	delay := a.baseDelay
	for i := 0; i < a.attempts; i++ {
		a.clock.Sleep(delay)
		if probe := a.inner.Probe(ctx); probe.Reachable {
			a.logger.Infow("local provider server is up", zap.Int("probes", i+1))
			return nil
		}
		delay *= 2
		if delay > a.maxDelay {
			delay = a.maxDelay
		}
	}
	return &errors.ProviderUnavailableError{Backend: a.Name(), Err: fmt.Errorf("local server not ready after %d probes", a.attempts)}
}
