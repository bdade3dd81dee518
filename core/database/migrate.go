package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/m3rciful/barbot/core/logger"
)

const (
	readyTimeout  = 30 * time.Second
	readyInterval = 2 * time.Second
	previewFiles  = 6
)

// RunMigrations applies every pending up migration found in dir of
// migrations, typically an embed.FS compiled into the binary.
func RunMigrations(ctx context.Context, cfg Config, migrations fs.FS, dir string) (err error) {
	defer func() {
		if err != nil {
			logger.MIG.Error("migration failed",
				slog.String("event", "db.migrate"),
				slog.String("err", err.Error()),
			)
		}
	}()

	if err := WaitForPostgres(ctx, cfg.DSN(), readyTimeout, readyInterval); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	files := listMigrationFiles(migrations, dir)
	logFiles("migrations resolved", "resolve", files, slog.String("path", dir))

	src, err := iofs.New(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer func() {
		if cerr := errors.Join(m.Close()); cerr != nil {
			logger.MIG.Warn("close failed", slog.String("err", cerr.Error()))
		}
	}()

	from := currentVersion(m)
	start := time.Now()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration execution failed: %w", err)
	}
	to := currentVersion(m)

	applied := selectApplied(files, from, to)
	logFiles("applied files", "apply", applied)
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", from),
		slog.Uint64("to_ver", to),
		slog.Int("files", len(applied)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// currentVersion returns the applied schema version, 0 for an empty database.
func currentVersion(m *migrate.Migrate) uint64 {
	v, _, err := m.Version()
	if err != nil {
		return 0
	}
	return uint64(v)
}

func logFiles(msg, event string, files []string, extra ...any) {
	if len(files) == 0 {
		return
	}
	preview, truncated := logger.SummarizeStrings(files, previewFiles)
	args := append([]any{
		slog.String("event", event),
		slog.Int("files_total", len(files)),
		slog.String("files_preview", preview),
		slog.Bool("files_truncated", truncated),
	}, extra...)
	logger.MIG.Debug(msg, args...)
}

// listMigrationFiles returns the sorted *.up.sql names in dir, or nil when
// dir cannot be read.
func listMigrationFiles(fsys fs.FS, dir string) []string {
	names, err := fs.Glob(fsys, dir+"/*.up.sql")
	if err != nil || len(names) == 0 {
		return nil
	}
	for i, n := range names {
		names[i] = strings.TrimPrefix(n, dir+"/")
	}
	slices.Sort(names)
	return names
}

func parseVersion(name string) uint64 {
	prefix, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(prefix, 10, 64)
	return v
}

// selectApplied picks the files whose version lies in (from, to].
func selectApplied(files []string, from, to uint64) []string {
	var out []string
	for _, f := range files {
		if v := parseVersion(f); v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
