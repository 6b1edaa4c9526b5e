// Package sqlite provides a SQLite-backed implementation of
// driven.MirrorStore.
//
// The mirror holds the most recently loaded portfolio snapshot so the
// tool can still answer queries when the portfolio file disappears.
// It uses modernc.org/sqlite, a pure Go driver that requires no CGO.
//
// By default the database is stored at ~/.folio/data/mirror.db.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
)

var _ driven.MirrorStore = (*MirrorStore)(nil)

// MirrorStore persists a single portfolio snapshot in SQLite.
type MirrorStore struct {
	db   *sql.DB
	path string
}

// NewMirrorStore opens the mirror database in the given data directory.
// If dataDir is empty, defaults to ~/.folio/data.
func NewMirrorStore(dataDir string) (*MirrorStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".folio", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "mirror.db")

	// WAL mode so a reader never blocks the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS mirror (
			id       INTEGER PRIMARY KEY CHECK (id = 1),
			snapshot BLOB NOT NULL,
			saved_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating mirror table: %w", err)
	}

	return &MirrorStore{db: db, path: dbPath}, nil
}

// Save replaces the stored snapshot.
func (s *MirrorStore) Save(ctx context.Context, snapshot []byte) error {
	if len(snapshot) == 0 {
		return fmt.Errorf("empty snapshot: %w", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mirror (id, snapshot, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			snapshot = excluded.snapshot,
			saved_at = excluded.saved_at
	`, snapshot, time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving mirror snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot and when it was saved.
func (s *MirrorStore) Load(ctx context.Context) ([]byte, time.Time, error) {
	var (
		snapshot []byte
		savedAt  string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT snapshot, saved_at FROM mirror WHERE id = 1",
	).Scan(&snapshot, &savedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("mirror snapshot: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading mirror snapshot: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parsing mirror timestamp: %w", err)
	}
	return snapshot, ts, nil
}

// Clear removes the stored snapshot.
func (s *MirrorStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM mirror"); err != nil {
		return fmt.Errorf("clearing mirror snapshot: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *MirrorStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *MirrorStore) Close() error {
	return s.db.Close()
}
