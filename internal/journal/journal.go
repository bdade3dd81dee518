// Package journal keeps an append-only record of completed bar searches in
// Postgres. It is write-mostly analytics; chat sessions never read from it.
package journal

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/barbot/core/logger"
	"github.com/m3rciful/barbot/internal/bars"
)

// Migrations holds the schema, applied at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations containing the SQL files.
const MigrationsDir = "migrations"

// Search is one stored row.
type Search struct {
	ID        uuid.UUID `db:"id"`
	ChatID    int64     `db:"chat_id"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	Provider  string    `db:"provider"`
	Results   int       `db:"results"`
	CreatedAt time.Time `db:"created_at"`
}

const insertSearch = `
INSERT INTO searches (id, chat_id, latitude, longitude, provider, results, created_at)
VALUES (:id, :chat_id, :latitude, :longitude, :provider, :results, :created_at)`

const selectRecent = `
SELECT id, chat_id, latitude, longitude, provider, results, created_at
FROM searches
ORDER BY created_at DESC
LIMIT $1`

// Store writes searches through sqlx.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Record implements bars.Journal.
func (s *Store) Record(ctx context.Context, rec bars.SearchRecord) error {
	row := NewSearch(rec, s.now())
	if _, err := s.db.NamedExecContext(ctx, insertSearch, row); err != nil {
		return fmt.Errorf("journal: insert search: %w", err)
	}
	logger.Journal.LogAttrs(ctx, slog.LevelDebug, "journal.recorded",
		slog.String("id", row.ID.String()),
		slog.Int64("chat_id", row.ChatID),
		slog.Int("venues", row.Results),
	)
	return nil
}

// Recent returns up to limit searches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Search, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Search
	if err := s.db.SelectContext(ctx, &out, selectRecent, limit); err != nil {
		return nil, fmt.Errorf("journal: select recent: %w", err)
	}
	return out, nil
}

// NewSearch converts a search record into a row with a fresh id.
func NewSearch(rec bars.SearchRecord, at time.Time) Search {
	return Search{
		ID:        uuid.New(),
		ChatID:    rec.ChatID,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		Provider:  rec.Provider,
		Results:   rec.Results,
		CreatedAt: at.UTC(),
	}
}

// Nop discards every record. It is used when no database is configured.
type Nop struct{}

// Record implements bars.Journal.
func (Nop) Record(context.Context, bars.SearchRecord) error { return nil }
