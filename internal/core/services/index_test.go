package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// --- Mock implementations ---

// mockEmbedder returns canned vectors by exact text, falling back to a
// default vector. Texts listed in failFor return an error.
type mockEmbedder struct {
	dims     int
	vectors  map[string][]float32
	fallback []float32
	failFor  map[string]bool
	calls    int
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{
		dims:    dims,
		vectors: make(map[string][]float32),
		failFor: make(map[string]bool),
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.failFor[text] {
		return nil, errors.New("embed failed")
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return make([]float32, m.dims), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int   { return m.dims }
func (m *mockEmbedder) ModelName() string { return "mock-embed" }
func (m *mockEmbedder) Close() error      { return nil }

// basis returns a unit vector with a 1 at position i.
func basis(dims, i int) []float32 {
	v := make([]float32, dims)
	v[i] = 1
	return v
}

func testTree() []domain.Portfolio {
	return []domain.Portfolio{
		{
			ID:   "pf-1",
			Name: "Core",
			Products: []domain.Product{
				{
					ID:          "p-1",
					Name:        "Alpha",
					Description: "Alpha product",
					Metrics: []domain.Metric{
						{Name: "Latency", Value: "120", Unit: "ms", Description: "p95 response time"},
					},
					Goals: []domain.ReleaseGoal{
						{
							Month: 4, Year: 2025,
							Description:  "Improve speed",
							CurrentState: "slow",
							TargetState:  "fast",
						},
					},
					Plans: []domain.ReleasePlan{
						{
							Month: 5, Year: 2025,
							Items: []domain.PlanItem{
								{Title: "Rewrite cache layer", Description: "Replace LRU with ARC"},
							},
						},
					},
				},
			},
		},
	}
}

// --- Tests ---

func TestRebuild_EntryOrderAndTemplates(t *testing.T) {
	embedder := newMockEmbedder(4)
	index := NewVectorIndex(embedder)

	require.False(t, index.Ready())
	require.NoError(t, index.Rebuild(context.Background(), testTree()))
	require.True(t, index.Ready())

	entries := index.entries
	require.Len(t, entries, 6)

	assert.Equal(t, "pf-1-name", entries[0].ID)
	assert.Equal(t, domain.CategoryPortfolio, entries[0].Category)
	assert.Equal(t, "Portfolio: Core", entries[0].Text)

	assert.Equal(t, "p-1-name", entries[1].ID)
	assert.Equal(t, "Product: Alpha", entries[1].Text)

	assert.Equal(t, "p-1-description", entries[2].ID)
	assert.Equal(t, "Product Alpha: Alpha product", entries[2].Text)
	assert.Equal(t, "Alpha product", entries[2].Metadata.OriginalText)

	assert.Equal(t, "p-1-goal-0-0", entries[3].ID)
	assert.Equal(t, domain.CategoryGoal, entries[3].Category)
	assert.Equal(t,
		"Goal for Alpha (4/2025): Improve speed. Current state: slow. Target state: fast",
		entries[3].Text)
	assert.Equal(t, "Improve speed", entries[3].Metadata.OriginalText)

	assert.Equal(t, "p-1-plan-0-0", entries[4].ID)
	assert.Equal(t, "Plan for Alpha (5/2025): Rewrite cache layer. Replace LRU with ARC", entries[4].Text)

	assert.Equal(t, "p-1-metric-0", entries[5].ID)
	assert.Equal(t, "Metric for Alpha: Latency = 120 ms. p95 response time", entries[5].Text)
	assert.Equal(t, "Latency = 120 ms", entries[5].Metadata.OriginalText)

	for _, e := range entries {
		assert.Equal(t, "pf-1", e.Metadata.PortfolioID)
		assert.Equal(t, "Core", e.Metadata.PortfolioName)
	}
}

func TestRebuild_ReplacesNotAppends(t *testing.T) {
	index := NewVectorIndex(newMockEmbedder(4))
	ctx := context.Background()

	require.NoError(t, index.Rebuild(ctx, testTree()))
	first := index.Len()

	require.NoError(t, index.Rebuild(ctx, testTree()))
	assert.Equal(t, first, index.Len())
}

func TestRebuild_ToleratesMalformedRecords(t *testing.T) {
	index := NewVectorIndex(newMockEmbedder(4))

	portfolios := []domain.Portfolio{
		{ID: "pf-1", Name: ""},
		{ID: "pf-2", Name: "Edge", Products: []domain.Product{
			{
				ID: "p-1", Name: "Beta",
				// No description, empty goal, plan without items.
				Goals: []domain.ReleaseGoal{{Month: 1, Year: 2026}},
				Plans: []domain.ReleasePlan{{Month: 1, Year: 2026}},
			},
		}},
	}

	require.NoError(t, index.Rebuild(context.Background(), portfolios))

	// Two portfolio names plus one product name; nothing else indexable.
	assert.Equal(t, 3, index.Len())
}

func TestRebuild_SkipsFailedEmbeddings(t *testing.T) {
	embedder := newMockEmbedder(4)
	embedder.failFor["Product: Alpha"] = true
	index := NewVectorIndex(embedder)

	require.NoError(t, index.Rebuild(context.Background(), testTree()))

	assert.Equal(t, 5, index.Len())
	for _, e := range index.entries {
		assert.NotEqual(t, "Product: Alpha", e.Text)
	}
}

func TestRebuild_LegacyGoalShape(t *testing.T) {
	index := NewVectorIndex(newMockEmbedder(4))

	portfolios := []domain.Portfolio{
		{ID: "pf-1", Name: "Core", Products: []domain.Product{
			{ID: "p-1", Name: "Alpha", Goals: []domain.ReleaseGoal{
				{Month: 6, Year: 2024, Goal: "Ship exports", CurrentState: "none", FutureState: "CSV"},
			}},
		}},
	}

	require.NoError(t, index.Rebuild(context.Background(), portfolios))

	var goalEntry *domain.VectorEntry
	for i := range index.entries {
		if index.entries[i].Category == domain.CategoryGoal {
			goalEntry = &index.entries[i]
		}
	}
	require.NotNil(t, goalEntry)
	assert.Equal(t,
		"Goal for Alpha (6/2024): Ship exports. Current state: none. Target state: CSV",
		goalEntry.Text)
}

func TestQuery_BeforeRebuildReturnsEmpty(t *testing.T) {
	index := NewVectorIndex(newMockEmbedder(4))

	hits := index.Query(context.Background(), "anything", 5)
	assert.Empty(t, hits)
}

func TestQuery_TopKTruncation(t *testing.T) {
	const dims = 16
	embedder := newMockEmbedder(dims)

	// Ten products, each with a distinct basis vector. The query leans
	// towards products 3 and 7.
	var products []domain.Product
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("Prod%d", i)
		products = append(products, domain.Product{ID: fmt.Sprintf("p-%d", i), Name: name})
		embedder.vectors["Product: "+name] = basis(dims, i)
	}
	query := make([]float32, dims)
	query[3] = 0.9
	query[7] = 0.4
	embedder.vectors["which product"] = query
	// Portfolio entry stays orthogonal to the query.
	embedder.vectors["Portfolio: Core"] = basis(dims, 15)

	index := NewVectorIndex(embedder)
	require.NoError(t, index.Rebuild(context.Background(),
		[]domain.Portfolio{{ID: "pf-1", Name: "Core", Products: products}}))
	require.Equal(t, 11, index.Len())

	hits := index.Query(context.Background(), "which product", 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "Prod3", hits[0].Entry.Metadata.ProductName)
	assert.Equal(t, "Prod7", hits[1].Entry.Metadata.ProductName)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestQuery_TiesKeepInsertionOrder(t *testing.T) {
	const dims = 4
	embedder := newMockEmbedder(dims)
	embedder.fallback = basis(dims, 0) // every entry identical
	embedder.vectors["q"] = basis(dims, 0)

	var products []domain.Product
	for i := 0; i < 3; i++ {
		products = append(products, domain.Product{ID: fmt.Sprintf("p-%d", i), Name: fmt.Sprintf("P%d", i)})
	}

	index := NewVectorIndex(embedder)
	require.NoError(t, index.Rebuild(context.Background(),
		[]domain.Portfolio{{ID: "pf-1", Name: "Core", Products: products}}))

	hits := index.Query(context.Background(), "q", 10)
	require.Len(t, hits, 4)
	assert.Equal(t, "pf-1-name", hits[0].Entry.ID)
	assert.Equal(t, "p-0-name", hits[1].Entry.ID)
	assert.Equal(t, "p-1-name", hits[2].Entry.ID)
	assert.Equal(t, "p-2-name", hits[3].Entry.ID)
}

func TestQuery_EmbedFailureReturnsEmpty(t *testing.T) {
	embedder := newMockEmbedder(4)
	embedder.failFor["boom"] = true

	index := NewVectorIndex(embedder)
	require.NoError(t, index.Rebuild(context.Background(), testTree()))

	hits := index.Query(context.Background(), "boom", 5)
	assert.Empty(t, hits)
}

func TestQuery_DefaultTopK(t *testing.T) {
	embedder := newMockEmbedder(4)
	embedder.fallback = basis(4, 0)
	embedder.vectors["q"] = basis(4, 0)

	var products []domain.Product
	for i := 0; i < 9; i++ {
		products = append(products, domain.Product{ID: fmt.Sprintf("p-%d", i), Name: fmt.Sprintf("P%d", i)})
	}

	index := NewVectorIndex(embedder)
	require.NoError(t, index.Rebuild(context.Background(),
		[]domain.Portfolio{{ID: "pf-1", Name: "Core", Products: products}}))

	hits := index.Query(context.Background(), "q", 0)
	assert.Len(t, hits, DefaultTopK)
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}
	opposite := []float32{-1, 0, 0}
	zero := []float32{0, 0, 0}

	assert.InDelta(t, 1.0, cosineSimilarity(a, a), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity(a, b), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity(a, opposite), 1e-9)

	// Zero-norm vectors score exactly 0, no NaN.
	assert.Zero(t, cosineSimilarity(a, zero))
	assert.Zero(t, cosineSimilarity(zero, zero))

	// Mismatched lengths score 0 rather than panicking.
	assert.Zero(t, cosineSimilarity(a, []float32{1, 0}))

	// Bounds hold for arbitrary non-zero vectors.
	c := []float32{0.3, -0.7, 0.2}
	d := []float32{-0.1, 0.9, 0.5}
	sim := cosineSimilarity(c, d)
	assert.GreaterOrEqual(t, sim, -1.0-1e-9)
	assert.LessOrEqual(t, sim, 1.0+1e-9)
}

func TestRebuild_CancelledContext(t *testing.T) {
	index := NewVectorIndex(newMockEmbedder(4))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := index.Rebuild(ctx, testTree())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "cancel"))
	assert.False(t, index.Ready())
}
