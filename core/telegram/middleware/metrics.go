package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const countersKey = "send_counters"

// sendCounters tallies successful sends for one update. Sends happen inside
// the chat loop goroutine, after the middleware chain has returned.
type sendCounters struct {
	messages atomic.Int32
	keyboard atomic.Bool
}

// countingContext wraps tele.Context so every successful Send or Reply is counted.
type countingContext struct {
	tele.Context
	n *sendCounters
}

func (c countingContext) Send(what any, opts ...any) error {
	return c.count(c.Context.Send(what, opts...), opts)
}

func (c countingContext) Reply(what any, opts ...any) error {
	return c.count(c.Context.Reply(what, opts...), opts)
}

func (c countingContext) count(err error, opts []any) error {
	if err == nil {
		c.n.messages.Add(1)
		if carriesMarkup(opts) {
			c.n.keyboard.Store(true)
		}
	}
	return err
}

func carriesMarkup(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// MessageMetricsMiddleware counts the messages sent while handling an update.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		n := &sendCounters{}
		c.Set(countersKey, n)
		return next(countingContext{Context: c, n: n})
	}
}

// GetCounters returns how many messages were sent for the update and
// whether any of them carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	n, ok := c.Get(countersKey).(*sendCounters)
	if !ok {
		return 0, false
	}
	return int(n.messages.Load()), n.keyboard.Load()
}
