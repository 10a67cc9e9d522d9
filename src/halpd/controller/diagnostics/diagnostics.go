// Package diagnostics aggregates provider and session health for clients.
package diagnostics

import (
	"context"

	tally "github.com/uber-go/tally/v4"
	sessionmanager "github.com/uber/halpd/src/halpd/controller/session-manager"
	"github.com/uber/halpd/src/halpd/gateway/provider"
	"github.com/uber/halpd/src/halpd/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=diagnostics.go -destination=diagnosticsmock/diagnostics_mock.go -package=diagnosticsmock

// Controller reports daemon health on demand. It is read-only and a failed
// probe is part of the report, never an error to the caller.
type Controller interface {
	Snapshot(ctx context.Context) *model.DiagnosticsResult
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Sessions sessionmanager.Controller
	Provider provider.Provider
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
}

type controller struct {
	sessions sessionmanager.Controller
	provider provider.Provider
	logger   *zap.SugaredLogger
	scope    tally.Scope
}

// New constructs a new diagnostics aggregator.
func New(p Params) Controller {
	return &controller{
		sessions: p.Sessions,
		provider: p.Provider,
		logger:   p.Logger,
		scope:    p.Stats.SubScope("diagnostics"),
	}
}

// Snapshot probes the provider and folds session stats into one report.
func (c *controller) Snapshot(ctx context.Context) *model.DiagnosticsResult {
	c.scope.Counter("requests").Inc(1)

	probe := c.provider.Probe(ctx)
	result := &model.DiagnosticsResult{
		Provider: model.ProviderDiagnostics{
			Name:      c.provider.Name(),
			Reachable: probe.Reachable,
			Detail:    probe.Detail,
			LatencyMS: probe.Latency.Milliseconds(),
		},
		Status: model.StatusSuccess,
	}

	stats, err := c.sessions.Stats(ctx)
	if err != nil {
		c.logger.Errorw("collecting session stats", "error", err)
		return result
	}
	result.Sessions = stats

	c.logger.Infow("diagnostics collected", "backend", result.Provider.Name, "reachable", probe.Reachable, "sessions", stats.Total)
	return result
}
