package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexNotReady indicates the vector index has not been built yet.
	// Queries against an unbuilt index return empty results; this error
	// is only surfaced by operations that require a built index.
	ErrIndexNotReady = errors.New("vector index not ready")

	// ErrRebuildInProgress indicates an index rebuild is already running.
	ErrRebuildInProgress = errors.New("index rebuild in progress")
)
