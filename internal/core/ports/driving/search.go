package driving

import (
	"context"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// SearchService routes free-text queries across the record tree.
type SearchService interface {
	// Search classifies the query and returns either semantic or lexical
	// results in the uniform result shape. It never fails for normal
	// operation: when semantic search is unavailable or returns nothing,
	// the lexical result is returned instead.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Classify reports whether a query reads as a natural-language
	// question or a keyword phrase.
	Classify(query string) domain.QueryKind
}

// Indexer controls the lifecycle of the semantic vector index.
type Indexer interface {
	// Rebuild discards the current index and rebuilds it in full from
	// the given record tree snapshot.
	Rebuild(ctx context.Context, portfolios []domain.Portfolio) error

	// Ready reports whether a rebuild has completed since startup.
	Ready() bool

	// Len returns the number of indexed entries.
	Len() int
}
