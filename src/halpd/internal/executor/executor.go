package executor

import (
	"os/exec"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Supply(
		fx.Annotate(NewExecutor(
			WithStartFunc(func(cmd *exec.Cmd) error { return cmd.Start() }),
		), fx.As(new(Executor))),
	),
)

// Executor wraps the launching of "os/exec".Cmd's to allow adding logs to
// each launch and makes it easier to test.
type Executor interface {
	// StartCommand logs and starts the Cmd specified without waiting for it
	// to exit. The child owns its own process group and outlives the caller.
	StartCommand(cmd *exec.Cmd, env []string) error
}

// executorImp implements Executor
type executorImp struct {
	Logger *zap.SugaredLogger
	// StartFunc may be nil to use executorImp in tests.
	StartFunc func(e *exec.Cmd) error
}

// Option defines options to customize executorImp's behavior
type Option func(*executorImp)

// WithLogger overrides the default noop logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(executor *executorImp) {
		executor.Logger = logger
	}
}

// WithStartFunc provides customized launch behavior for executorImp
func WithStartFunc(startFunc func(e *exec.Cmd) error) Option {
	return func(executor *executorImp) {
		executor.StartFunc = startFunc
	}
}

// NewExecutor creates a new executorImp with a noop logger and a default
// launch function.
func NewExecutor(opts ...Option) Executor {
	executor := &executorImp{
		Logger:    zap.NewNop().Sugar(),
		StartFunc: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor
}

// StartCommand logs the Path/Args and calls StartFunc if it is set.
func (l *executorImp) StartCommand(cmd *exec.Cmd, env []string) error {
	l.Logger.Infow("Exec",
		"Path", cmd.Path,
		"Dir", cmd.Dir,
		"Args", cmd.Args[1:], // First arg is always the command itself
	)

	if l.StartFunc == nil {
		l.Logger.Warn("missing StartFunc - skipped launch")
		return nil
	}

	cmd.Env = env
	return l.StartFunc(cmd)
}
