package domain

// QueryKind classifies a free-text query for search routing.
type QueryKind string

// Query kinds.
const (
	// QueryNaturalLanguage indicates a conversational question suited to
	// semantic search ("what are the goals for product X?").
	QueryNaturalLanguage QueryKind = "natural-language"

	// QueryKeyword indicates a terse keyword phrase suited to lexical
	// substring matching ("dashboard").
	QueryKeyword QueryKind = "keyword"
)

// ResultType identifies what kind of record a search result points at.
type ResultType string

// Result types.
const (
	ResultTypePortfolio ResultType = "portfolio"
	ResultTypeProduct   ResultType = "product"
)

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results. When <= 0 the service
	// defaults apply (15 lexical, 5 semantic).
	Limit int

	// Semantic forces semantic search even for keyword-classified
	// queries, provided the vector index is ready.
	Semantic bool
}

// SearchResult is the uniform result shape for both semantic and
// lexical hits, consumable by a UI list.
type SearchResult struct {
	// Type is the kind of record that matched.
	Type ResultType `json:"type"`

	// ID is the matched record's identifier.
	ID string `json:"id"`

	// Name is the matched record's display name.
	Name string `json:"name"`

	// PortfolioID and PortfolioName identify the owning portfolio for
	// product results. Empty for portfolio results.
	PortfolioID   string `json:"portfolioId,omitempty"`
	PortfolioName string `json:"portfolioName,omitempty"`

	// MatchField is a human-readable label for the field that matched
	// ("name", "description", "Goal", "Plan", "Metric").
	MatchField string `json:"matchField"`

	// MatchValue is the original unlabelled text of the matched field.
	MatchValue string `json:"matchValue"`

	// SemanticScore is the cosine similarity for semantic hits.
	// Nil for lexical hits.
	SemanticScore *float64 `json:"semanticScore,omitempty"`

	// SemanticText is the full labelled text that was embedded.
	// Callers truncate for preview at render time; it is stored whole.
	SemanticText string `json:"semanticText,omitempty"`
}
