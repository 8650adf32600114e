package entity

import (
	"context"
	"strings"
	"unicode/utf8"

	"autoparts/internal/core/apperror"
)

// Catalog is the base type for named reference data:
// warehouses, countries, brands.
type Catalog struct {
	BaseEntity

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Name:       strings.TrimSpace(name),
	}
}

// GetName returns the display name.
func (c *Catalog) GetName() string {
	return c.Name
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if utf8.RuneCountInString(c.Name) > 100 {
		return apperror.NewValidation("name is too long").
			WithDetail("field", "name").
			WithDetail("max", 100)
	}
	return nil
}
