package router

import (
	"log/slog"

	tg "github.com/m3rciful/barbot/core/telegram"
	"github.com/m3rciful/barbot/core/telegram/callbacks"
	"github.com/m3rciful/barbot/core/telegram/delegate"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute returns a route that resolves callbacks through the registry
// and runs them in the chat's event loop. Every callback is acknowledged so
// the client stops its spinner, even when no handler matches.
func CallbackRoute(reg *tg.Registry, d *delegate.Delegator) tg.Route {
	handler := func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		key, _ := callbacks.ParseCallbackData(cb)
		name := "callback." + normalizeHandlerName(key)

		cbHandler, ok := reg.GetCallback(key)
		return Serial(d, name, func(c tele.Context) error {
			_ = c.Respond()
			if !ok {
				markSkipped(c, "not_found")
				return nil
			}
			return cbHandler(c)
		}, slog.String("cb_key", key))(c)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
