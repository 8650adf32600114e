// Package warehouse provides the Warehouse catalog.
// A warehouse is a physical location holding stock; every product row belongs to one.
package warehouse

import (
	"context"
	"unicode/utf8"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/entity"
)

// Warehouse represents a storage location for goods.
type Warehouse struct {
	entity.Catalog

	// Address is the physical address
	Address string `db:"address" json:"address,omitempty"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(name string) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(name),
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}
	if utf8.RuneCountInString(w.Address) > 200 {
		return apperror.NewValidation("address is too long").
			WithDetail("field", "address").
			WithDetail("max", 200)
	}
	return nil
}
