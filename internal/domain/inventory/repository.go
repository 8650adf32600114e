package inventory

import (
	"context"
	"time"

	"autoparts/internal/core/id"
	"autoparts/internal/domain"
)

// ProductRepository defines persistence for products.
type ProductRepository interface {
	GetByID(ctx context.Context, id id.ID) (*Product, error)

	// GetForUpdate retrieves the product with a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id id.ID) (*Product, error)

	// FindByIdentity returns the product matching identity, or NotFound.
	// No lock is taken.
	FindByIdentity(ctx context.Context, identity Identity) (*Product, error)

	// Ensure inserts p unless a product with the same identity exists, then
	// returns the stored row (which may not be p). No lock is taken.
	Ensure(ctx context.Context, p *Product) (*Product, error)

	// SaveStock writes quantity and cost price of a locked product.
	SaveStock(ctx context.Context, p *Product) error

	// UpdateDetails writes selling price and suits-for with optimistic locking.
	UpdateDetails(ctx context.Context, p *Product) error

	List(ctx context.Context, filter ProductFilter) (domain.ListResult[*Product], error)
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	domain.ListFilter

	WarehouseID *id.ID
	BrandID     *id.ID
	CountryID   *id.ID
	InStockOnly bool
}

// ArrivalRepository defines persistence for arrival headers and lines.
type ArrivalRepository interface {
	Create(ctx context.Context, a *Arrival) error
	GetByID(ctx context.Context, id id.ID) (*Arrival, error)
	GetForUpdate(ctx context.Context, id id.ID) (*Arrival, error)

	// Update writes header fields with optimistic locking.
	Update(ctx context.Context, a *Arrival) error

	// Delete removes the header. Fails with ReferenceIntegrity while lines exist.
	Delete(ctx context.Context, id id.ID) error

	List(ctx context.Context, filter ArrivalFilter) (domain.ListResult[*Arrival], error)

	// Line operations

	CountLines(ctx context.Context, arrivalID id.ID) (int, error)
	ListLines(ctx context.Context, arrivalIDs ...id.ID) ([]ArrivalLine, error)
	CreateLine(ctx context.Context, line *ArrivalLine) error
	GetLineForUpdate(ctx context.Context, lineID id.ID) (*ArrivalLine, error)
	UpdateLine(ctx context.Context, line *ArrivalLine) error
	DeleteLine(ctx context.Context, lineID id.ID) error
}

// ArrivalFilter narrows arrival listings.
type ArrivalFilter struct {
	domain.ListFilter

	WarehouseID *id.ID

	// Arrival dates are calendar days; both bounds are inclusive.
	DateFrom *time.Time
	DateTo   *time.Time
}
