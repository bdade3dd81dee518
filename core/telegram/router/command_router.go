package router

import (
	"log/slog"

	"github.com/m3rciful/barbot/core/logger"
	tg "github.com/m3rciful/barbot/core/telegram"
	"github.com/m3rciful/barbot/core/telegram/delegate"
)

// CommandRoutes binds every registered command to its Telegram endpoint,
// running the handler in the chat's event loop.
func CommandRoutes(reg *tg.Registry, d *delegate.Delegator) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  Serial(d, normalizeHandlerName(cmd), def.Handler),
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}
