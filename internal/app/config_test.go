package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
telegram:
  token: "123:abc"
  run_mode: polling
logging:
  level: debug
session:
  idle_timeout_minutes: 5
search:
  provider: Google
  google_api_key: places-key
  limit: 4
database:
  host: ""
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" || cfg.Telegram.RunMode != "longpoll" {
		t.Fatalf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Search.Provider != "google" || cfg.Search.Limit != 4 || cfg.Search.Category != "bars" {
		t.Fatalf("search = %+v", cfg.Search)
	}
	if cfg.Maps.APIKey != "places-key" {
		t.Fatalf("maps key = %q, want fallback to places key", cfg.Maps.APIKey)
	}
	if cfg.Session.IdleTimeout() != 5*time.Minute || cfg.Session.QueueSize != 16 {
		t.Fatalf("session = %+v", cfg.Session)
	}
	if cfg.Database.Enabled() {
		t.Fatal("database should be disabled")
	}
	if cfg.CoreConfig() != &cfg.Config {
		t.Fatal("CoreConfig does not expose the embedded config")
	}
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv("BOT_TOKEN", "999:env")
	t.Setenv("SEARCH_PROVIDER", "yelp")
	t.Setenv("YELP_API_KEY", "yelp-key")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "barbot")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "999:env" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Search.Provider != "yelp" || cfg.Search.YelpAPIKey != "yelp-key" || cfg.Search.Limit != 6 {
		t.Fatalf("search = %+v", cfg.Search)
	}
	if !cfg.Database.Enabled() || cfg.Database.Port != "5432" {
		t.Fatalf("database = %+v", cfg.Database)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"no token":         "search:\n  yelp_api_key: k\n",
		"no yelp key":      "telegram:\n  token: t\n",
		"no google key":    "telegram:\n  token: t\nsearch:\n  provider: google\n",
		"unknown provider": "telegram:\n  token: t\nsearch:\n  provider: osm\n",
		"negative limit":   "telegram:\n  token: t\nsearch:\n  yelp_api_key: k\n  limit: -1\n",
		"limit too large":  "telegram:\n  token: t\nsearch:\n  yelp_api_key: k\n  limit: 10\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
