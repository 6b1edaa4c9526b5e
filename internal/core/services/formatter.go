package services

import (
	"strings"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// PreviewLength is the display truncation length for semantic text.
const PreviewLength = 120

// lexicalPortfolioResult builds the uniform result shape for a
// portfolio-level lexical hit.
func lexicalPortfolioResult(pf *domain.Portfolio) domain.SearchResult {
	return domain.SearchResult{
		Type:       domain.ResultTypePortfolio,
		ID:         pf.ID,
		Name:       pf.Name,
		MatchField: "name",
		MatchValue: pf.Name,
	}
}

// lexicalProductResult builds the uniform result shape for a
// product-level lexical hit on the given field.
func lexicalProductResult(pf *domain.Portfolio, p *domain.Product, field, value string) domain.SearchResult {
	return domain.SearchResult{
		Type:          domain.ResultTypeProduct,
		ID:            p.ID,
		Name:          p.Name,
		PortfolioID:   pf.ID,
		PortfolioName: pf.Name,
		MatchField:    field,
		MatchValue:    value,
	}
}

// formatSemanticHits converts vector hits into the uniform result
// shape. SemanticText carries the full embedded text; truncation for
// preview happens at render time via PreviewText.
func formatSemanticHits(hits []domain.VectorHit) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(hits))
	for i := range hits {
		results = append(results, formatSemanticHit(hits[i]))
	}
	return results
}

func formatSemanticHit(hit domain.VectorHit) domain.SearchResult {
	md := hit.Entry.Metadata
	score := hit.Similarity

	r := domain.SearchResult{
		MatchValue:    md.OriginalText,
		SemanticScore: &score,
		SemanticText:  hit.Entry.Text,
	}

	switch hit.Entry.Category {
	case domain.CategoryPortfolio:
		r.Type = domain.ResultTypePortfolio
		r.ID = md.PortfolioID
		r.Name = md.PortfolioName
		r.MatchField = md.Field
	case domain.CategoryProduct:
		r.Type = domain.ResultTypeProduct
		r.ID = md.ProductID
		r.Name = md.ProductName
		r.PortfolioID = md.PortfolioID
		r.PortfolioName = md.PortfolioName
		r.MatchField = md.Field
	default:
		r.Type = domain.ResultTypeProduct
		r.ID = md.ProductID
		r.Name = md.ProductName
		r.PortfolioID = md.PortfolioID
		r.PortfolioName = md.PortfolioName
		r.MatchField = categoryLabel(hit.Entry.Category)
	}

	return r
}

// categoryLabel maps an entry category to its display label.
func categoryLabel(c domain.Category) string {
	switch c {
	case domain.CategoryGoal:
		return "Goal"
	case domain.CategoryPlan:
		return "Plan"
	case domain.CategoryMetric:
		return "Metric"
	case domain.CategoryNote:
		return "Note"
	default:
		return string(c)
	}
}

// PreviewText truncates semantic text for display. Stored results keep
// the full text; only rendered previews are shortened.
func PreviewText(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= PreviewLength {
		return string(runes)
	}
	return string(runes[:PreviewLength]) + "..."
}
