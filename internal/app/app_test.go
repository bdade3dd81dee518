package app

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Search.YelpAPIKey = "k"
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	handlers, err := buildHandlers(cfg, nil)
	if err != nil {
		t.Fatalf("buildHandlers: %v", err)
	}
	return &App{cfg: cfg, handlers: handlers}
}

func TestRegistry(t *testing.T) {
	reg := testApp(t).Registry()
	for _, cmd := range []string{"/start", "/help"} {
		if _, _, ok := reg.LookupCommand(cmd); !ok {
			t.Fatalf("%s not registered", cmd)
		}
	}
	if _, ok := reg.GetCallback("bar_3"); !ok {
		t.Fatal("selection callback not registered")
	}
	if _, ok := reg.GetCallback("other"); ok {
		t.Fatal("unexpected callback match")
	}
	if got := len(reg.ListCommands(true)); got != 2 {
		t.Fatalf("visible commands = %d, want 2", got)
	}
}

func TestTelegramRunOptions(t *testing.T) {
	app := testApp(t)
	opts, err := app.TelegramRunOptions()
	if err != nil {
		t.Fatalf("TelegramRunOptions: %v", err)
	}
	defer opts.Delegator.Close()

	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		if r.Handler == nil {
			t.Fatalf("route %v has no handler", r.Endpoint)
		}
		endpoints[r.Endpoint] = true
	}
	for _, want := range []string{"/start", "/help", tele.OnText, tele.OnCallback, tele.OnLocation} {
		if !endpoints[want] {
			t.Errorf("missing route %q", want)
		}
	}
	if len(opts.Middlewares) == 0 || opts.Config != app.cfg.CoreConfig() {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestBuildHandlersRejectsBadProvider(t *testing.T) {
	cfg := &Config{}
	cfg.Search.Provider = "osm"
	if _, err := buildHandlers(cfg, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestCloseWithoutDatabase(t *testing.T) {
	a := testApp(t)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
