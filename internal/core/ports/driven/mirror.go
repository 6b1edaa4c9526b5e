package driven

import (
	"context"
	"time"
)

// MirrorStore caches the most recent serialized record tree for the
// session, mirroring what the dashboard keeps in browser storage.
// It is a fallback read path, never the source of truth.
type MirrorStore interface {
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot []byte) error

	// Load returns the stored snapshot and when it was saved.
	// Returns domain.ErrNotFound when no snapshot exists.
	Load(ctx context.Context) ([]byte, time.Time, error)

	// Clear removes the stored snapshot.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
