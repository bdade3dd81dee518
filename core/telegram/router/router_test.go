package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/barbot/core/telegram"
	"github.com/m3rciful/barbot/core/telegram/commands"
	"github.com/m3rciful/barbot/core/telegram/delegate"
)

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	t.Cleanup(srv.Close)
	bot, err := tele.NewBot(tele.Settings{Token: "1:test", URL: srv.URL, Offline: true})
	if err != nil {
		t.Fatalf("bot: %v", err)
	}
	return bot
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) handler(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		r.mu.Lock()
		r.calls = append(r.calls, name)
		r.mu.Unlock()
		return nil
	}
}

func textUpdate(id int, chatID int64, text string) tele.Update {
	return tele.Update{ID: id, Message: &tele.Message{
		Chat:   &tele.Chat{ID: chatID},
		Sender: &tele.User{ID: chatID},
		Text:   text,
	}}
}

func TestTextRouteResolvesCommandsLoosely(t *testing.T) {
	bot := offlineBot(t)
	rec := &recorder{}
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: rec.handler("start"), Description: "start"})
	d := delegate.New(delegate.Options{})

	route := TextRoute(reg, d)
	for i, text := range []string{"/START", "  /start@BarBot ", "hello", "/unknown", "/start now"} {
		if err := route.Handler(bot.NewContext(textUpdate(i+1, 7, text))); err != nil {
			t.Fatalf("%q: %v", text, err)
		}
	}
	d.Close()

	if len(rec.calls) != 2 {
		t.Fatalf("calls = %v, want two starts", rec.calls)
	}
}

func TestCallbackRouteUsesPrefix(t *testing.T) {
	bot := offlineBot(t)
	rec := &recorder{}
	reg := tg.NewRegistry()
	if err := reg.RegisterCallbackPrefix("bar_", rec.handler("bar")); err != nil {
		t.Fatal(err)
	}
	d := delegate.New(delegate.Options{})

	route := CallbackRoute(reg, d)
	for i, data := range []string{"bar_1", "bar_2", "other"} {
		u := tele.Update{ID: i + 1, Callback: &tele.Callback{
			ID:      "cb",
			Data:    data,
			Message: &tele.Message{Chat: &tele.Chat{ID: 9}},
		}}
		if err := route.Handler(bot.NewContext(u)); err != nil {
			t.Fatalf("%s: %v", data, err)
		}
	}
	d.Close()

	if len(rec.calls) != 2 {
		t.Fatalf("calls = %v, want two bar selections", rec.calls)
	}
}

func TestSerialKeepsChatOrder(t *testing.T) {
	bot := offlineBot(t)
	d := delegate.New(delegate.Options{QueueSize: 32})

	var (
		mu  sync.Mutex
		got []string
	)
	h := func(c tele.Context) error {
		mu.Lock()
		got = append(got, c.Text())
		mu.Unlock()
		return nil
	}
	want := []string{"a", "b", "c", "d"}
	for i, text := range want {
		_ = Serial(d, "seq", h)(bot.NewContext(textUpdate(i+1, 3, text)))
	}
	d.Close()

	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSerialReturnsBeforeHandlerErrors(t *testing.T) {
	bot := offlineBot(t)
	d := delegate.New(delegate.Options{})
	err := Serial(d, "fail", func(tele.Context) error { return errors.New("boom") })(bot.NewContext(textUpdate(1, 4, "x")))
	d.Close()
	if err != nil {
		t.Fatalf("Serial returned %v; errors belong to the loop", err)
	}
	if d.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", d.ErrorCount())
	}
}

type codeErr struct{}

func (codeErr) Error() string { return "stale" }
func (codeErr) Code() string  { return "stale selection" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestDeriveErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{codeErr{}, "STALE_SELECTION"},
		{&plainErr{}, "PLAINERR"},
	}
	for _, tc := range cases {
		if got := deriveErrorCode(tc.err); got != tc.want {
			t.Errorf("deriveErrorCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	if got := normalizeHandlerName(" /Start Now "); got != "start_now" {
		t.Fatalf("got %q", got)
	}
	if got := normalizeHandlerName(""); got != "unknown" {
		t.Fatalf("got %q", got)
	}
}
