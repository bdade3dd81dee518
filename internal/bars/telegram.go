package bars

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/m3rciful/barbot/core/logger"
	"github.com/m3rciful/barbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/barbot/core/telegram/helpers"
	"github.com/m3rciful/barbot/core/telegram/keyboard"
	"github.com/m3rciful/barbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

type teleOutbox struct {
	c tele.Context
}

// NewOutbox returns an Outbox replying to the chat of c.
func NewOutbox(c tele.Context) Outbox {
	return teleOutbox{c: c}
}

func (o teleOutbox) SendPhoto(url string) error {
	return tghelpers.SendPhotoURL(o.c, url)
}

func (o teleOutbox) SendText(msg Message) error {
	markup := replyMarkup(msg)
	if msg.Markdown {
		return tghelpers.SendMD(o.c, msg.Text, markup)
	}
	if markup == nil {
		return tghelpers.SendText(o.c, msg.Text)
	}
	return tghelpers.SendText(o.c, msg.Text, &tele.SendOptions{ReplyMarkup: markup})
}

func (o teleOutbox) SendLocation(lat, lon float64) error {
	return tghelpers.SendLocation(o.c, lat, lon)
}

func replyMarkup(msg Message) *tele.ReplyMarkup {
	switch {
	case len(msg.Menu) > 0:
		btns := make([]keyboard.InlineBtn, len(msg.Menu))
		for i, e := range msg.Menu {
			btns[i] = keyboard.InlineBtn{Text: e.Text, Data: e.Token}
		}
		return keyboard.InlineButtons(btns)
	case msg.RequestLocation != "":
		return keyboard.LocationRequest(msg.RequestLocation)
	}
	return nil
}

// Handlers binds a Bot to Telegram events and to the per-chat session store.
// Each handler must run inside the chat's event loop so that reads and
// writes of one chat's session never interleave.
type Handlers struct {
	bot      *Bot
	sessions state.Store[Session]
}

// NewHandlers returns Handlers storing sessions in sessions.
func NewHandlers(bot *Bot, sessions state.Store[Session]) *Handlers {
	return &Handlers{bot: bot, sessions: sessions}
}

// Location handles a shared location.
func (h *Handlers) Location(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Location == nil || c.Chat() == nil {
		return nil
	}
	lat, lon := widen(msg.Location.Lat), widen(msg.Location.Lng)
	chatID := c.Chat().ID
	return h.Apply(tghelpers.BuildContext(c), chatID, NewOutbox(c), func(ctx context.Context, out Outbox, s Session) (Session, error) {
		return h.bot.OnLocation(ctx, out, chatID, s, lat, lon)
	})
}

// Selection handles a menu button press.
func (h *Handlers) Selection(c tele.Context) error {
	if c.Chat() == nil {
		return nil
	}
	token := callbacks.CallbackKey(c)
	return h.Apply(tghelpers.BuildContext(c), c.Chat().ID, NewOutbox(c), func(ctx context.Context, out Outbox, s Session) (Session, error) {
		return h.bot.OnSelection(ctx, out, s, token)
	})
}

// Command handles /start and /help. It reads the session but never stores one.
func (h *Handlers) Command(c tele.Context) error {
	if c.Chat() == nil {
		return nil
	}
	s, _ := h.sessions.Get(c.Chat().ID)
	_, err := h.bot.OnCommand(tghelpers.BuildContext(c), NewOutbox(c), s, c.Text())
	return err
}

// Apply runs fn with the chat's current session and stores the result when
// fn succeeds. A failed event leaves the session as it was.
func (h *Handlers) Apply(ctx context.Context, chatID int64, out Outbox, fn func(context.Context, Outbox, Session) (Session, error)) error {
	s, _ := h.sessions.Get(chatID)
	next, err := fn(ctx, out, s)
	if err != nil {
		return err
	}
	h.sessions.Put(chatID, next)
	logger.Session.LogAttrs(ctx, slog.LevelDebug, "session.stored",
		slog.Int64("chat_id", chatID),
		slog.String("phase", next.Phase.String()),
		slog.Int("venues", len(next.Venues)),
	)
	return nil
}

// Forget drops the chat's session. It is called when the chat's event loop
// retires after the idle window.
func (h *Handlers) Forget(chatID int64) {
	h.sessions.Drop(chatID)
	logger.Session.LogAttrs(context.Background(), slog.LevelDebug, "session.dropped",
		slog.Int64("chat_id", chatID),
		slog.Int("sessions", h.sessions.Len()),
	)
}

// widen converts a Telegram float32 coordinate to the shortest float64 that
// prints the same, so 52.52 stays 52.52 in URLs and queries.
func widen(v float32) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'f', -1, 32), 64)
	if err != nil {
		return float64(v)
	}
	return f
}
