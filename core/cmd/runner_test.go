package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/barbot/core/config"
	coretelegram "github.com/m3rciful/barbot/core/telegram"
	"github.com/m3rciful/barbot/core/telegram/delegate"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type fakeApp struct {
	closed int
}

func (a *fakeApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{Delegator: delegate.New(delegate.Options{})}, nil
}

func (a *fakeApp) Close() error {
	a.closed++
	return nil
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("BARBOT_TEST_CONFIG", "/env.yaml")

	got, _ := ResolveConfigPath(Options{ConfigPath: "/flag.yaml", ConfigEnvVar: "BARBOT_TEST_CONFIG"})
	if got != "/flag.yaml" {
		t.Fatalf("flag path = %s", got)
	}
	got, _ = ResolveConfigPath(Options{ConfigEnvVar: "BARBOT_TEST_CONFIG", DefaultConfigPath: "config.yaml"})
	if got != "/env.yaml" {
		t.Fatalf("env path = %s", got)
	}
	got, _ = ResolveConfigPath(Options{ConfigEnvVar: "BARBOT_TEST_UNSET", DefaultConfigPath: "config.yaml"})
	if got != "config.yaml" {
		t.Fatalf("default path = %s", got)
	}
	if _, err := ResolveConfigPath(Options{ConfigEnvVar: "BARBOT_TEST_UNSET"}); err == nil {
		t.Fatal("expected error without any path")
	}
}

func TestRunWiresLifecycle(t *testing.T) {
	app := &fakeApp{}
	var started, stopped bool
	err := Run(context.Background(), Options{
		ConfigPath: "config.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return app, nil
		},
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			rt := coretelegram.Runtime{Delegator: opts.Delegator}
			started = opts.OnStart(ctx, rt) == nil
			stopped = opts.OnStop(ctx, rt) == nil
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !started || !stopped {
		t.Fatalf("started=%v stopped=%v", started, stopped)
	}
	if app.closed != 1 {
		t.Fatalf("app closed %d times, want 1", app.closed)
	}
}

func TestRunBootstrapFailure(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), Options{
		ConfigPath: "config.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return nil, boom
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}
