package router

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m3rciful/barbot/core/logger"
	tghelpers "github.com/m3rciful/barbot/core/telegram/helpers"
	"github.com/m3rciful/barbot/core/telegram/delegate"

	tele "gopkg.in/telebot.v4"
)

// Serial returns a handler that hands h over to the chat's event loop and
// returns immediately. The handler summary is logged when h finishes.
func Serial(d *delegate.Delegator, name string, h tele.HandlerFunc, extras ...slog.Attr) tele.HandlerFunc {
	return func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil || h == nil {
			return nil
		}
		sum := summary{handler: name, start: time.Now(), extras: extras}
		ctx := tghelpers.BuildContext(c)
		err := d.Submit(ctx, chat.ID, name, func(context.Context) error {
			return sum.run(c, func() error { return h(c) })
		})
		if err != nil {
			level := slog.LevelWarn
			if !errors.Is(err, delegate.ErrQueueFull) && !errors.Is(err, delegate.ErrClosed) {
				level = slog.LevelError
			}
			logger.LogEvent(ctx, logger.Loop, level, "loop.rejected",
				slog.String("handler", name),
				slog.String("err", err.Error()),
			)
		}
		return nil
	}
}
