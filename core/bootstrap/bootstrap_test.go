package bootstrap

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/barbot/core/config"
	coredatabase "github.com/m3rciful/barbot/core/database"
)

func noLogger(*coreconfig.Config) error { return nil }

func TestRunWithoutDatabase(t *testing.T) {
	connected := false
	res, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			connected = true
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if connected || res.DB != nil {
		t.Fatal("database touched without host")
	}
	if err := res.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRunPropagatesFailures(t *testing.T) {
	boom := errors.New("boom")

	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}

	_, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("logger failure = %v", err)
	}

	_, err = Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Host: "db", Name: "barbot"},
		LoggerInit: noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			return nil, boom
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("connect failure = %v", err)
	}
}

func TestRunSkipsMigrateWithoutSource(t *testing.T) {
	migrated := false
	res, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Host: "db", Name: "barbot"},
		LoggerInit: noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			return &sqlx.DB{}, nil
		},
		Migrate: func(context.Context, coredatabase.Config, fs.FS, string) error {
			migrated = true
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if migrated || res.DB == nil {
		t.Fatalf("migrated=%v db=%v", migrated, res.DB)
	}

	_, err = Run(context.Background(), Options{
		Config:        &coreconfig.Config{},
		Database:      coredatabase.Config{Host: "db", Name: "barbot"},
		Migrations:    fstest.MapFS{},
		MigrationsDir: "migrations",
		LoggerInit:    noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			return &sqlx.DB{}, nil
		},
		Migrate: func(context.Context, coredatabase.Config, fs.FS, string) error {
			migrated = true
			return nil
		},
	})
	if err != nil || !migrated {
		t.Fatalf("migrate not run: migrated=%v err=%v", migrated, err)
	}
}
