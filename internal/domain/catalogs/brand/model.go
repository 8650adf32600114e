// Package brand provides the Brand catalog (part manufacturer).
package brand

import (
	"context"

	"autoparts/internal/core/entity"
	"autoparts/internal/core/tx"
	"autoparts/internal/domain"
)

// Brand is a parts manufacturer.
type Brand struct {
	entity.Catalog

	LogoURL string `db:"logo_url" json:"logoUrl,omitempty"`
}

// NewBrand creates a Brand.
func NewBrand(name string) *Brand {
	return &Brand{Catalog: entity.NewCatalog(name)}
}

// Validate implements entity.Validatable interface.
func (b *Brand) Validate(ctx context.Context) error {
	return b.Catalog.Validate(ctx)
}

// Repository defines the interface for Brand persistence.
type Repository interface {
	domain.CatalogRepository[*Brand]
}

// Service provides business logic for the Brand catalog.
type Service struct {
	*domain.CatalogService[*Brand]
}

// NewService creates a new Brand service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Brand]{
			Repo:       repo,
			TxManager:  txm,
			EntityName: "brand",
		}),
	}
}
