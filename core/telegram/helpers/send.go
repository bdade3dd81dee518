package helpers

import (
	"log/slog"
	"time"

	"github.com/m3rciful/barbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// send runs one outbound call synchronously and logs its outcome. The error
// is returned unchanged so handlers can abort the current event.
func send(c tele.Context, action string, what interface{}, opts ...interface{}) error {
	ctx := BuildContext(c)
	start := time.Now()
	err := c.Send(what, opts...)
	if err != nil {
		logger.Debug(ctx, "tg.sender", "send.fail",
			slog.String("action", action),
			slog.String("err", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return err
	}
	logger.Debug(ctx, "tg.sender", "send.success",
		slog.String("action", action),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	if len(opts) > 0 && opts[0] != nil {
		return send(c, "send.text", text, opts[0])
	}
	return send(c, "send.text", text)
}

// SendMD sends a message with Markdown parse mode and optional reply markup.
func SendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	var rm *tele.ReplyMarkup
	if len(markup) > 0 {
		rm = markup[0]
	}
	return SendText(c, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: rm})
}

// SendPhotoURL sends a photo that Telegram fetches from url.
func SendPhotoURL(c tele.Context, url string) error {
	return send(c, "send.photo", &tele.Photo{File: tele.FromURL(url)})
}

// SendLocation sends a location pin.
func SendLocation(c tele.Context, lat, lon float64) error {
	return send(c, "send.location", &tele.Location{Lat: float32(lat), Lng: float32(lon)})
}
