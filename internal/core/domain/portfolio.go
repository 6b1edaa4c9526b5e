package domain

// Portfolio is the top-level grouping of the record tree.
// Portfolios own products; products own goals, plans, notes, and metrics.
// The tree is read-only from the search core's perspective.
type Portfolio struct {
	// ID is the unique identifier for the portfolio.
	ID string

	// Name is the human-readable portfolio name.
	Name string

	// Products are the products tracked under this portfolio.
	Products []Product
}

// Product represents one tracked product and its release artefacts.
type Product struct {
	// ID is the unique identifier for the product.
	ID string

	// Name is the human-readable product name.
	Name string

	// Description is an optional free-text summary.
	Description string

	// Metrics are per-product measurements (always flat).
	Metrics []Metric

	// Goals are release goals, keyed by month/year.
	Goals []ReleaseGoal

	// Plans are release plans, keyed by month/year.
	Plans []ReleasePlan

	// Notes are release notes, keyed by month/year.
	Notes []ReleaseNote
}

// ReleaseGoal captures the desired state change for a release.
//
// Two shapes exist in the wild: a flat goal (Description, CurrentState,
// TargetState on the goal itself) and a nested list of Items. Older
// exports also used the field names "goal" and "futureState" for the
// flat shape. ResolvedItems normalises all of these.
type ReleaseGoal struct {
	Month int
	Year  int

	// Flat shape.
	Description  string
	CurrentState string
	TargetState  string

	// Legacy flat aliases from older exports.
	Goal        string
	FutureState string

	// Nested shape. When present it takes precedence over the flat fields.
	Items []GoalItem
}

// GoalItem is one normalised sub-goal.
type GoalItem struct {
	Description  string
	CurrentState string
	TargetState  string
}

// ResolvedItems flattens the goal shape duality into a list of items.
// When the nested list is present it is returned as-is; otherwise the
// flat fields (including legacy aliases) form a single implicit item.
// A goal with no content resolves to nil.
func (g ReleaseGoal) ResolvedItems() []GoalItem {
	if len(g.Items) > 0 {
		return g.Items
	}

	desc := g.Description
	if desc == "" {
		desc = g.Goal
	}
	target := g.TargetState
	if target == "" {
		target = g.FutureState
	}

	if desc == "" && g.CurrentState == "" && target == "" {
		return nil
	}

	return []GoalItem{{
		Description:  desc,
		CurrentState: g.CurrentState,
		TargetState:  target,
	}}
}

// ReleasePlan is the work planned for a release.
// Plans are always list-shaped; there is no flat fallback.
type ReleasePlan struct {
	Month int
	Year  int
	Items []PlanItem
}

// ResolvedItems returns the plan items. Plans without items resolve to
// nothing and are skipped during indexing.
func (p ReleasePlan) ResolvedItems() []PlanItem {
	return p.Items
}

// PlanItem is one planned work item.
type PlanItem struct {
	Title       string
	Description string
	Status      string
	Owner       string
}

// Metric is a single product measurement.
type Metric struct {
	Name        string
	Value       string
	Unit        string
	Description string
}

// ReleaseNote is free-form text attached to a release.
type ReleaseNote struct {
	Month   int
	Year    int
	Content string
}

// FindProduct returns the product with the given ID and its owning
// portfolio, or nil when no such product exists.
func FindProduct(portfolios []Portfolio, productID string) (*Product, *Portfolio) {
	for i := range portfolios {
		for j := range portfolios[i].Products {
			if portfolios[i].Products[j].ID == productID {
				return &portfolios[i].Products[j], &portfolios[i]
			}
		}
	}
	return nil, nil
}
