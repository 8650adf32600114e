package currency

import (
	"context"

	"autoparts/internal/core/id"
	"autoparts/internal/domain"
)

// Repository defines the interface for Rate persistence.
type Repository interface {
	domain.CatalogRepository[*Rate]

	// FindByCode retrieves a rate by its currency code.
	FindByCode(ctx context.Context, code string) (*Rate, error)

	// FindSelected returns the selected rate, or NotFound.
	FindSelected(ctx context.Context) (*Rate, error)

	// LockSelection serialises selection changes until the transaction ends.
	LockSelection(ctx context.Context) error

	// SetSelected marks exactly the given rate as selected. A nil ID clears
	// every selection.
	SetSelected(ctx context.Context, rateID id.ID) error
}
