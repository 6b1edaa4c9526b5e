package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/core/ports/driving"
	"github.com/folio-labs/folio-cli/internal/logger"
)

// Ensure VectorIndex implements the interface.
var _ driving.Indexer = (*VectorIndex)(nil)

// DefaultTopK is the number of hits returned when the caller does not
// specify a limit.
const DefaultTopK = 5

// VectorIndex is an in-memory similarity index over the record tree.
//
// The index is empty at startup and built wholesale by Rebuild; there
// are no partial updates. A subsequent Rebuild discards and replaces
// the previous entries in full. All entries are embedded by the same
// EmbeddingService instance, so their vectors share one dimension.
type VectorIndex struct {
	embedder driven.EmbeddingService

	// buildMu serialises rebuilds: a second Rebuild waits for the first.
	buildMu sync.Mutex

	mu      sync.RWMutex
	entries []domain.VectorEntry
	ready   bool
}

// NewVectorIndex creates an empty index backed by the given embedder.
func NewVectorIndex(embedder driven.EmbeddingService) *VectorIndex {
	return &VectorIndex{embedder: embedder}
}

// Ready reports whether a rebuild has completed.
func (x *VectorIndex) Ready() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.ready
}

// Len returns the number of indexed entries.
func (x *VectorIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Rebuild discards the current entries and rebuilds the index from the
// given record tree snapshot.
//
// Entry order is deterministic: each portfolio in list order, then its
// products in list order, then per product name, description, goals,
// plans, metrics. This order is the tie-break for equal similarity
// scores in Query. Individual embedding failures are logged and the
// affected entry skipped; Rebuild itself only fails on context
// cancellation.
func (x *VectorIndex) Rebuild(ctx context.Context, portfolios []domain.Portfolio) error {
	x.buildMu.Lock()
	defer x.buildMu.Unlock()

	logger.Section("Index Rebuild")
	logger.Debug("Rebuilding over %d portfolios with %s (%d dims)",
		len(portfolios), x.embedder.ModelName(), x.embedder.Dimensions())

	var entries []domain.VectorEntry

	add := func(id string, category domain.Category, text string, meta domain.EntryMetadata) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		vec, err := x.embedder.Embed(ctx, text)
		if err != nil {
			logger.Warn("Skipping entry %s: embedding failed: %v", id, err)
			return nil
		}
		entries = append(entries, domain.VectorEntry{
			ID:        id,
			Category:  category,
			Text:      text,
			Embedding: vec,
			Metadata:  meta,
		})
		return nil
	}

	for pi := range portfolios {
		pf := &portfolios[pi]
		meta := domain.EntryMetadata{
			PortfolioID:   pf.ID,
			PortfolioName: pf.Name,
			Field:         "name",
			OriginalText:  pf.Name,
		}
		if err := add(pf.ID+"-name", domain.CategoryPortfolio, "Portfolio: "+pf.Name, meta); err != nil {
			return err
		}

		for qi := range pf.Products {
			if err := x.addProductEntries(ctx, add, pf, &pf.Products[qi]); err != nil {
				return err
			}
		}
	}

	x.mu.Lock()
	x.entries = entries
	x.ready = true
	x.mu.Unlock()

	logger.Info("Index rebuilt: %d entries", len(entries))
	return nil
}

// addProductEntries emits the per-product entries in the fixed order:
// name, description, goals, plans, metrics.
func (x *VectorIndex) addProductEntries(
	ctx context.Context,
	add func(string, domain.Category, string, domain.EntryMetadata) error,
	pf *domain.Portfolio,
	p *domain.Product,
) error {
	meta := func(field, original string) domain.EntryMetadata {
		return domain.EntryMetadata{
			PortfolioID:   pf.ID,
			PortfolioName: pf.Name,
			ProductID:     p.ID,
			ProductName:   p.Name,
			Field:         field,
			OriginalText:  original,
		}
	}

	if err := add(p.ID+"-name", domain.CategoryProduct,
		"Product: "+p.Name, meta("name", p.Name)); err != nil {
		return err
	}

	if p.Description != "" {
		text := fmt.Sprintf("Product %s: %s", p.Name, p.Description)
		if err := add(p.ID+"-description", domain.CategoryProduct,
			text, meta("description", p.Description)); err != nil {
			return err
		}
	}

	for gi, goal := range p.Goals {
		for ii, item := range goal.ResolvedItems() {
			id := fmt.Sprintf("%s-goal-%d-%d", p.ID, gi, ii)
			text := fmt.Sprintf("Goal for %s (%d/%d): %s. Current state: %s. Target state: %s",
				p.Name, goal.Month, goal.Year, item.Description, item.CurrentState, item.TargetState)
			if err := add(id, domain.CategoryGoal, text, meta("goal", item.Description)); err != nil {
				return err
			}
		}
	}

	for li, plan := range p.Plans {
		for ii, item := range plan.ResolvedItems() {
			id := fmt.Sprintf("%s-plan-%d-%d", p.ID, li, ii)
			text := fmt.Sprintf("Plan for %s (%d/%d): %s. %s",
				p.Name, plan.Month, plan.Year, item.Title, item.Description)
			if err := add(id, domain.CategoryPlan, text, meta("plan", item.Title)); err != nil {
				return err
			}
		}
	}

	for mi, m := range p.Metrics {
		id := fmt.Sprintf("%s-metric-%d", p.ID, mi)
		original := strings.TrimSpace(fmt.Sprintf("%s = %s %s", m.Name, m.Value, m.Unit))
		text := fmt.Sprintf("Metric for %s: %s", p.Name, original)
		if m.Description != "" {
			text += ". " + m.Description
		}
		if err := add(id, domain.CategoryMetric, text, meta("metric", original)); err != nil {
			return err
		}
	}

	return nil
}

// Query embeds the text and returns the topK most similar entries in
// descending similarity order, ties broken by insertion order.
//
// An unbuilt or empty index yields an empty result, as does a query
// whose embedding fails. Query never mutates the index.
func (x *VectorIndex) Query(ctx context.Context, text string, topK int) []domain.VectorHit {
	if topK <= 0 {
		topK = DefaultTopK
	}

	if !x.Ready() {
		return nil
	}

	// Embed outside the lock: the only suspension point in the query path.
	queryVec, err := x.embedder.Embed(ctx, text)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.entries) == 0 {
		return nil
	}

	hits := make([]domain.VectorHit, len(x.entries))
	for i := range x.entries {
		hits[i] = domain.VectorHit{
			Entry:      x.entries[i],
			Similarity: cosineSimilarity(queryVec, x.entries[i].Embedding),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// cosineSimilarity returns dot(a,b) / (||a|| * ||b||), or exactly 0
// when either vector has zero norm. No NaN propagation.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
