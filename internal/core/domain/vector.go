package domain

// Category tags the provenance of a vector entry: which kind of field
// in the record tree the entry was built from.
type Category string

// Vector entry categories.
const (
	CategoryPortfolio Category = "portfolio"
	CategoryProduct   Category = "product"
	CategoryGoal      Category = "goal"
	CategoryPlan      Category = "plan"
	CategoryNote      Category = "note"
	CategoryMetric    Category = "metric"
)

// VectorEntry is one indexed (text, embedding, metadata) triple
// corresponding to one semantically meaningful field of the record tree.
type VectorEntry struct {
	// ID is unique per entry, derived from the source record ID and field.
	ID string

	// Category tags which kind of field produced this entry.
	Category Category

	// Text is the exact labelled string that was embedded.
	Text string

	// Embedding is the vector representation of Text. Its length always
	// equals the embedding provider's declared dimension.
	Embedding []float32

	// Metadata locates the entry in the record tree.
	Metadata EntryMetadata
}

// EntryMetadata records where a vector entry came from.
type EntryMetadata struct {
	PortfolioID   string
	PortfolioName string
	ProductID     string
	ProductName   string

	// Field is the source field name ("name", "description", "goal", ...).
	Field string

	// OriginalText is the unlabelled source text, kept for display.
	OriginalText string
}

// VectorHit pairs an entry with its cosine similarity to a query.
type VectorHit struct {
	Entry      VectorEntry
	Similarity float64
}
