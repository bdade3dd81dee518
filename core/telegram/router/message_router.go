package router

import (
	"time"

	tg "github.com/m3rciful/barbot/core/telegram"
	"github.com/m3rciful/barbot/core/telegram/delegate"

	tele "gopkg.in/telebot.v4"
)

// TextRoute handles free text. Text that names a registered command in a
// form Telegram does not route itself (other case, extra spaces) is resolved
// through the registry. Unmatched text produces no reply.
func TextRoute(reg *tg.Registry, d *delegate.Delegator) tg.Route {
	handler := func(c tele.Context) error {
		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				return Serial(d, normalizeHandlerName(key), cmd.Handler)(c)
			}
		}
		markSkipped(c, "unknown_text")
		summary{handler: "text", start: time.Now()}.log(c, nil)
		return nil
	}
	return tg.Route{Endpoint: tele.OnText, Handler: handler}
}

// EventRoute binds a non-text endpoint such as tele.OnLocation to h, running
// it in the chat's event loop.
func EventRoute(endpoint string, name string, h tele.HandlerFunc, d *delegate.Delegator) tg.Route {
	return tg.Route{Endpoint: endpoint, Handler: Serial(d, name, h)}
}
