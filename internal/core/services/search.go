package services

import (
	"context"
	"strings"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/core/ports/driving"
	"github.com/folio-labs/folio-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// MaxLexicalResults caps the lexical result list.
const MaxLexicalResults = 15

// SearchService routes queries between semantic and lexical search.
//
// The lexical result is always computed as a guaranteed fallback;
// semantic search is attempted only for natural-language queries
// against a ready index, and only a non-empty semantic result wins.
type SearchService struct {
	store driven.PortfolioStore
	index *VectorIndex
}

// NewSearchService creates a search service over the given store and
// vector index. The index may be unbuilt; searches then fall back to
// lexical matching until the first rebuild completes.
func NewSearchService(store driven.PortfolioStore, index *VectorIndex) *SearchService {
	return &SearchService{
		store: store,
		index: index,
	}
}

// Classify reports whether a query reads as a natural-language question
// or a keyword phrase.
func (s *SearchService) Classify(query string) domain.QueryKind {
	return classifyQuery(query)
}

// Search executes the query routing described above. It never fails for
// normal operation: store or embedding trouble degrades to whatever
// results remain reachable, down to an empty list.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 || limit > MaxLexicalResults {
		limit = MaxLexicalResults
	}

	portfolios, err := s.store.GetPortfolios(ctx)
	if err != nil {
		// Lexical search has nothing to scan, but semantic search may
		// still answer from the already-built index.
		logger.Warn("Portfolio store read failed: %v", err)
		portfolios = nil
	}

	lexical := s.lexicalSearch(portfolios, query, limit)
	logger.Debug("Lexical results: %d", len(lexical))

	kind := classifyQuery(query)
	logger.Debug("Query kind: %s", kind)

	useSemantic := s.index != nil && s.index.Ready() &&
		(opts.Semantic || kind == domain.QueryNaturalLanguage)

	if useSemantic {
		topK := opts.Limit
		if topK <= 0 {
			topK = DefaultTopK
		}
		hits := s.index.Query(ctx, query, topK)
		if len(hits) > 0 {
			logger.Info("Semantic search: %d hits", len(hits))
			return formatSemanticHits(hits), nil
		}
		logger.Debug("Semantic search empty, using lexical fallback")
	}

	return lexical, nil
}

// lexicalSearch performs a case-insensitive substring scan over the
// record tree. Results are deduplicated by (id, type, matchField),
// first occurrence wins, and capped at limit.
func (s *SearchService) lexicalSearch(
	portfolios []domain.Portfolio, query string, limit int,
) []domain.SearchResult {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []domain.SearchResult{}
	}

	matches := func(field string) bool {
		return strings.Contains(strings.ToLower(field), needle)
	}

	results := make([]domain.SearchResult, 0, limit)
	seen := make(map[string]struct{})

	emit := func(r domain.SearchResult) bool {
		key := r.ID + "|" + string(r.Type) + "|" + r.MatchField
		if _, dup := seen[key]; dup {
			return len(results) < limit
		}
		seen[key] = struct{}{}
		results = append(results, r)
		return len(results) < limit
	}

	for pi := range portfolios {
		pf := &portfolios[pi]

		if matches(pf.Name) {
			if !emit(lexicalPortfolioResult(pf)) {
				return results
			}
		}

		for qi := range pf.Products {
			p := &pf.Products[qi]

			if matches(p.Name) {
				if !emit(lexicalProductResult(pf, p, "name", p.Name)) {
					return results
				}
			}
			if p.Description != "" && matches(p.Description) {
				if !emit(lexicalProductResult(pf, p, "description", p.Description)) {
					return results
				}
			}

			for _, goal := range p.Goals {
				for _, item := range goal.ResolvedItems() {
					if matches(item.Description) || matches(item.CurrentState) || matches(item.TargetState) {
						if !emit(lexicalProductResult(pf, p, "goal", item.Description)) {
							return results
						}
					}
				}
			}

			for _, plan := range p.Plans {
				for _, item := range plan.ResolvedItems() {
					if matches(item.Title) || matches(item.Description) {
						if !emit(lexicalProductResult(pf, p, "plan", item.Title)) {
							return results
						}
					}
				}
			}

			for _, m := range p.Metrics {
				if matches(m.Name) || matches(m.Description) {
					if !emit(lexicalProductResult(pf, p, "metric", m.Name)) {
						return results
					}
				}
			}
		}
	}

	return results
}
