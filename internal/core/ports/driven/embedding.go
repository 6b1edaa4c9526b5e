package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations include a remote OpenAI-compatible API adapter, a
// deterministic local approximation, and a caching decorator that
// composes the two. All entries in one vector index must come from the
// same service instance; mixing dimensions is a caller error.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// Results are returned in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	// Every vector returned by Embed has exactly this length.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
