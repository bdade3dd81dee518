package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/barbot/core/logger"
	tghelpers "github.com/m3rciful/barbot/core/telegram/helpers"
	"github.com/m3rciful/barbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

const skipKey = "summary_skip"

// markSkipped records that the handler deliberately did nothing; the
// summary line then reports status=skip with reason.
func markSkipped(c tele.Context, reason string) {
	c.Set(skipKey, reason)
}

// summary describes the handler.handled line written once per routed update.
type summary struct {
	handler string
	start   time.Time
	extras  []slog.Attr
}

// run executes fn with the handler tagged on the request context and logs
// the summary afterwards.
func (s summary) run(c tele.Context, fn func() error) error {
	tghelpers.WithHandler(c, s.handler)
	err := fn()
	s.log(c, err)
	return err
}

func (s summary) log(c tele.Context, err error) {
	ctx := tghelpers.WithHandler(c, s.handler)
	msgs, kb := middleware.GetCounters(c)

	status, outcome := "ok", "ok"
	attrs := make([]slog.Attr, 0, 10+len(s.extras))
	switch reason, _ := c.Get(skipKey).(string); {
	case err != nil:
		status, outcome = "fail", "fail"
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
			slog.String("cause", s.handler),
		)
	case reason != "":
		status = "skip"
		attrs = append(attrs, slog.String("reason", reason))
	}
	attrs = append(attrs,
		slog.String("status", status),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", time.Since(s.start)),
	)
	attrs = append(attrs, s.extras...)
	logger.LogEvent(ctx, logger.TG, slog.LevelInfo, "handler.handled", attrs...)
}

// normalizeHandlerName turns a command or callback key into a log-friendly name.
func normalizeHandlerName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// deriveErrorCode prefers an explicit Code() anywhere in the chain and
// otherwise names the concrete type of the outermost wrapped error.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	if inner := errors.Unwrap(err); inner != nil {
		err = inner
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}
