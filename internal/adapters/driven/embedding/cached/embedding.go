// Package cached provides a memoizing embedding decorator with
// explicit fall-back-to-local degradation.
//
// The cache is keyed by exact text and consulted before any
// computation, so repeated text within a session never triggers a
// second remote call. When the primary embedder fails, the fallback
// answers for that call only; the failure is logged, never surfaced.
package cached

import (
	"context"
	"fmt"
	"sync"

	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService memoizes a primary embedder and degrades to a
// fallback on failure.
type EmbeddingService struct {
	primary  driven.EmbeddingService // optional; nil means fallback only
	fallback driven.EmbeddingService

	mu    sync.Mutex
	cache map[string][]float32
}

// NewEmbeddingService creates the caching decorator. The fallback is
// required and must never fail (the local approximation qualifies).
// The primary is optional; when present its dimension must match the
// fallback's, otherwise per-call degradation would mix vector lengths
// inside one index.
func NewEmbeddingService(primary, fallback driven.EmbeddingService) (*EmbeddingService, error) {
	if fallback == nil {
		return nil, fmt.Errorf("cached: fallback embedder is required")
	}
	if primary != nil && primary.Dimensions() != fallback.Dimensions() {
		return nil, fmt.Errorf("cached: primary dimension %d does not match fallback dimension %d",
			primary.Dimensions(), fallback.Dimensions())
	}

	return &EmbeddingService{
		primary:  primary,
		fallback: fallback,
		cache:    make(map[string][]float32),
	}, nil
}

// Embed returns the cached vector for the exact text when present,
// otherwise computes, caches, and returns it. A primary failure
// degrades to the fallback for this call only.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	if vec, ok := s.cache[text]; ok {
		s.mu.Unlock()
		return vec, nil
	}
	s.mu.Unlock()

	vec, err := s.compute(ctx, text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[text] = vec
	s.mu.Unlock()

	return vec, nil
}

// EmbedBatch embeds each text through the cache.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// compute runs the primary embedder with fallback degradation. This is
// the single place where the catch-and-fall-back happens.
func (s *EmbeddingService) compute(ctx context.Context, text string) ([]float32, error) {
	if s.primary != nil {
		vec, err := s.primary.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("Primary embedder %s failed, using local approximation: %v",
			s.primary.ModelName(), err)
	}
	return s.fallback.Embed(ctx, text)
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.fallback.Dimensions()
}

// ModelName returns the active model name: the primary's when
// configured, otherwise the fallback's.
func (s *EmbeddingService) ModelName() string {
	if s.primary != nil {
		return s.primary.ModelName()
	}
	return s.fallback.ModelName()
}

// CacheSize returns the number of memoized texts.
func (s *EmbeddingService) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Close releases both wrapped embedders.
func (s *EmbeddingService) Close() error {
	if s.primary != nil {
		if err := s.primary.Close(); err != nil {
			return err
		}
	}
	return s.fallback.Close()
}
