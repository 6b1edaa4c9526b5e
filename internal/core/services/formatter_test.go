package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

func TestFormatSemanticHit_GoalCategory(t *testing.T) {
	hit := domain.VectorHit{
		Similarity: 0.87,
		Entry: domain.VectorEntry{
			ID:       "p-1-goal-0-0",
			Category: domain.CategoryGoal,
			Text:     "Goal for Alpha (4/2025): Improve speed. Current state: slow. Target state: fast",
			Metadata: domain.EntryMetadata{
				PortfolioID:   "pf-1",
				PortfolioName: "Core",
				ProductID:     "p-1",
				ProductName:   "Alpha",
				Field:         "goal",
				OriginalText:  "Improve speed",
			},
		},
	}

	r := formatSemanticHit(hit)

	assert.Equal(t, domain.ResultTypeProduct, r.Type)
	assert.Equal(t, "p-1", r.ID)
	assert.Equal(t, "Alpha", r.Name)
	assert.Equal(t, "pf-1", r.PortfolioID)
	assert.Equal(t, "Core", r.PortfolioName)
	assert.Equal(t, "Goal", r.MatchField)
	assert.Equal(t, "Improve speed", r.MatchValue)
	require.NotNil(t, r.SemanticScore)
	assert.InDelta(t, 0.87, *r.SemanticScore, 1e-9)
	// Full text preserved; truncation is the renderer's job.
	assert.Equal(t, hit.Entry.Text, r.SemanticText)
}

func TestFormatSemanticHit_CategoryLabels(t *testing.T) {
	tests := []struct {
		category domain.Category
		want     string
	}{
		{domain.CategoryGoal, "Goal"},
		{domain.CategoryPlan, "Plan"},
		{domain.CategoryMetric, "Metric"},
		{domain.CategoryNote, "Note"},
	}

	for _, tt := range tests {
		hit := domain.VectorHit{Entry: domain.VectorEntry{Category: tt.category}}
		assert.Equal(t, tt.want, formatSemanticHit(hit).MatchField)
	}
}

func TestFormatSemanticHit_PortfolioAndProductUseFieldName(t *testing.T) {
	pfHit := domain.VectorHit{Entry: domain.VectorEntry{
		Category: domain.CategoryPortfolio,
		Metadata: domain.EntryMetadata{PortfolioID: "pf-1", PortfolioName: "Core", Field: "name"},
	}}
	r := formatSemanticHit(pfHit)
	assert.Equal(t, domain.ResultTypePortfolio, r.Type)
	assert.Equal(t, "pf-1", r.ID)
	assert.Equal(t, "name", r.MatchField)
	assert.Empty(t, r.PortfolioID) // a portfolio result has no owner

	prodHit := domain.VectorHit{Entry: domain.VectorEntry{
		Category: domain.CategoryProduct,
		Metadata: domain.EntryMetadata{
			PortfolioID: "pf-1", PortfolioName: "Core",
			ProductID: "p-1", ProductName: "Alpha", Field: "description",
		},
	}}
	r = formatSemanticHit(prodHit)
	assert.Equal(t, domain.ResultTypeProduct, r.Type)
	assert.Equal(t, "description", r.MatchField)
	assert.Equal(t, "pf-1", r.PortfolioID)
}

func TestPreviewText(t *testing.T) {
	short := "Goal for Alpha"
	assert.Equal(t, short, PreviewText(short))

	long := strings.Repeat("x", PreviewLength+40)
	preview := PreviewText(long)
	assert.Len(t, preview, PreviewLength+3)
	assert.True(t, strings.HasSuffix(preview, "..."))

	exact := strings.Repeat("y", PreviewLength)
	assert.Equal(t, exact, PreviewText(exact))
}
