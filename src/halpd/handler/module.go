package handler

import (
	controller "github.com/uber/halpd/src/halpd/controller"
	sessionmanager "github.com/uber/halpd/src/halpd/controller/session-manager"
	handler "github.com/uber/halpd/src/halpd/handler/halp-daemon"
	"github.com/uber/halpd/src/halpd/repository/session"
	"go.uber.org/fx"
)

// Module provides the halpd server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputDaemonIdentity),
	fx.Invoke(func(m handler.Handler) {}),
	fx.Invoke(func(m sessionmanager.Controller) {}),
)
