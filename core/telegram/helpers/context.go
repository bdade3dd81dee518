// Package helpers bridges tele.Context and context.Context and wraps
// outbound sends with logging.
package helpers

import (
	"context"

	"github.com/m3rciful/barbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// ctxSlot is the tele.Context storage key holding the derived context.
const ctxSlot = "barbot.ctx"

// StoreContext caches ctx on c so later helpers reuse the same request metadata.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(ctxSlot, ctx)
	}
}

// ContextFrom returns the context cached on c by StoreContext.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(ctxSlot).(context.Context)
	return ctx, ok
}

// BuildContext returns the cached context for c, deriving and caching one
// on first use. The derived context carries the rid, the update, chat and
// user ids, and the tg component logger.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}

	updateID := c.Update().ID
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(updateID, chatID, userID)
	}

	ctx := logger.WithLogger(context.Background(), logger.TG)
	ctx = logger.WithUpdateMeta(logger.WithRID(ctx, rid), updateID, userID, chatID)
	StoreContext(c, ctx)
	return ctx
}

// WithHandler tags the cached context with the handler name and returns it.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := logger.WithHandler(BuildContext(c), handler)
	StoreContext(c, ctx)
	return ctx
}
