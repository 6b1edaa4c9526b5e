// Package local provides a deterministic, dependency-free embedding
// service. Vectors are approximated from character codes, so the same
// text always yields bit-identical output and no network is involved.
// Quality is far below a real model, but it keeps semantic search
// functional when no remote credential is configured.
package local

import (
	"context"
	"math"

	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the vector length when none is specified.
const DefaultDimensions = 384

// ModelName identifies the local approximation.
const ModelName = "local-charcode-approx"

// EmbeddingService approximates embeddings from character codes.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a local embedder with the default
// dimension.
func NewEmbeddingService() *EmbeddingService {
	return NewEmbeddingServiceWithDimensions(DefaultDimensions)
}

// NewEmbeddingServiceWithDimensions creates a local embedder producing
// vectors of the given length. Used when the local embedder serves as
// the fallback for a remote model, whose dimension it must match.
func NewEmbeddingServiceWithDimensions(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a deterministic vector for the given text.
//
// Each character accumulates charCode/1000 into position
// charCode mod D, wrapping modulo 1 at every step, and the result is
// L2-normalised. A zero-norm vector (empty text) stays all zeros
// rather than dividing by zero. Short texts produce sparse vectors.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	acc := make([]float64, s.dimensions)
	for _, r := range text {
		pos := int(r) % s.dimensions
		acc[pos] = math.Mod(acc[pos]+float64(r)/1000.0, 1.0)
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}

	vec := make([]float32, s.dimensions)
	if norm == 0 {
		return vec, nil
	}

	norm = math.Sqrt(norm)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
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

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
