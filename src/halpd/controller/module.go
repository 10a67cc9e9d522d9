package controller

import (
	"github.com/uber/halpd/src/halpd/controller/chat"
	"github.com/uber/halpd/src/halpd/controller/diagnostics"
	sessionmanager "github.com/uber/halpd/src/halpd/controller/session-manager"
	"github.com/uber/halpd/src/halpd/controller/suggest"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(sessionmanager.New),
	fx.Provide(suggest.New),
	fx.Provide(chat.New),
	fx.Provide(diagnostics.New),
)
