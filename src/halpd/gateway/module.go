package gateway

import (
	"github.com/uber/halpd/src/halpd/gateway/provider"
	"go.uber.org/fx"
)

// Module provides all outbound gateways into an Fx application.
var Module = fx.Options(
	fx.Provide(provider.New),
)
