// Package halpdaemon implements the halpd service's JSON-RPC handlers.
package halpdaemon

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/halpd/src/halpd/controller/chat"
	"github.com/uber/halpd/src/halpd/controller/diagnostics"
	sessionmanager "github.com/uber/halpd/src/halpd/controller/session-manager"
	"github.com/uber/halpd/src/halpd/controller/suggest"
	"github.com/uber/halpd/src/halpd/internal/jsonrpcfx"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Handler represents the halpd service's client-facing API.
type Handler interface {
	// ConnectionCount reports the number of currently attached terminal clients.
	ConnectionCount() int
}

type handler struct {
	connectionManager *jsonRPCConnectionManager
}

// Params are inbound parameters to construct the handler.
type Params struct {
	fx.In

	Lifecycle   fx.Lifecycle
	JSONRPC     jsonrpcfx.JSONRPCModule
	Sessions    sessionmanager.Controller
	Suggest     suggest.Controller
	Chat        chat.Controller
	Diagnostics diagnostics.Controller
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
}

// New constructs a new halpd Handler and registers it to serve inbound connections.
func New(p Params) (Handler, error) {
	c := jsonRPCConnectionManager{
		sessions:    p.Sessions,
		suggest:     p.Suggest,
		chat:        p.Chat,
		diagnostics: p.Diagnostics,
		logger:      p.Logger,
		stats:       p.Stats.SubScope("json_rpc"),
		conns:       make(map[uuid.UUID]*jsonrpc2.Conn),
	}
	if err := p.JSONRPC.RegisterConnectionManager(&c); err != nil {
		return nil, fmt.Errorf("registering connection manager: %w", err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.closeAll()
		},
	})

	return &handler{connectionManager: &c}, nil
}

func (h *handler) ConnectionCount() int {
	return h.connectionManager.connectionCount()
}

type jsonRPCConnectionManager struct {
	sessions    sessionmanager.Controller
	suggest     suggest.Controller
	chat        chat.Controller
	diagnostics diagnostics.Controller
	logger      *zap.SugaredLogger
	stats       tally.Scope

	mu    sync.Mutex
	conns map[uuid.UUID]*jsonrpc2.Conn
}

// NewConnection will store a new connection and return a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router jsonrpcfx.Router, err error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	c.mu.Lock()
	c.conns[id] = conn
	c.mu.Unlock()
	c.stats.Counter("connections_opened").Inc(1)

	r := jsonRPCRouter{
		sessions:    c.sessions,
		suggest:     c.suggest,
		chat:        c.chat,
		diagnostics: c.diagnostics,
		uuid:        id,
		stats:       c.stats,
	}

	return &r, nil
}

// RemoveConnection cleans up a closed connection. Sessions created over the
// connection stay registered until detached and reclaimed.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	delete(c.conns, id)
	c.mu.Unlock()
	c.stats.Counter("connections_closed").Inc(1)
}

func (c *jsonRPCConnectionManager) connectionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns)
}

// closeAll closes any connections still attached at daemon shutdown so
// clients see EOF instead of a hung socket.
func (c *jsonRPCConnectionManager) closeAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result error
	for id, conn := range c.conns {
		if err := (*conn).Close(); err != nil {
			result = multierr.Append(result, fmt.Errorf("closing connection %s: %w", id, err))
		}
	}
	c.conns = make(map[uuid.UUID]*jsonrpc2.Conn)
	return result
}
