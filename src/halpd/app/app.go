package app

import (
	"context"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/halpd/src/halpd/gateway"
	"github.com/uber/halpd/src/halpd/handler"
	"github.com/uber/halpd/src/halpd/internal/clock"
	"github.com/uber/halpd/src/halpd/internal/core"
	"github.com/uber/halpd/src/halpd/internal/daemoninfo"
	"github.com/uber/halpd/src/halpd/internal/executor"
	"github.com/uber/halpd/src/halpd/internal/fs"
	"github.com/uber/halpd/src/halpd/internal/jsonrpcfx"
	"go.uber.org/fx"
)

// Module defines the halpd application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	fs.Module,
	executor.Module,
	daemoninfo.Module,
	clock.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "halpd",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
)
