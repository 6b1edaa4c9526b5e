package driven

import (
	"context"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// PortfolioStore provides access to the persisted record tree.
//
// The search core only ever reads through this port; writes come from
// the CRUD surface of the CLI. Reads return a snapshot - mutating the
// returned slices does not affect the store.
type PortfolioStore interface {
	// GetPortfolios returns the full record tree snapshot.
	GetPortfolios(ctx context.Context) ([]domain.Portfolio, error)

	// FindProductByID returns a product and its owning portfolio.
	// Returns domain.ErrNotFound when no product has the given ID.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, *domain.Portfolio, error)

	// SavePortfolios replaces the persisted record tree in full.
	SavePortfolios(ctx context.Context, portfolios []domain.Portfolio) error

	// AddPortfolio appends a new portfolio.
	// Returns domain.ErrAlreadyExists when the ID is already taken.
	AddPortfolio(ctx context.Context, portfolio domain.Portfolio) error

	// DeletePortfolio removes a portfolio and all its products.
	// Returns domain.ErrNotFound when the portfolio does not exist.
	DeletePortfolio(ctx context.Context, portfolioID string) error

	// AddProduct appends a product to the given portfolio.
	AddProduct(ctx context.Context, portfolioID string, product domain.Product) error

	// UpdateProduct replaces a product in place, wherever it lives.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// DeleteProduct removes a product from its owning portfolio.
	DeleteProduct(ctx context.Context, productID string) error

	// Watch delivers a notification each time the backing file changes
	// on disk (external edits). The channel is closed when the store's
	// watcher shuts down.
	Watch() <-chan struct{}

	// Close releases resources, including any file watcher.
	Close() error
}
