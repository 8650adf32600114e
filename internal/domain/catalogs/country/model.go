// Package country provides the Country catalog (country of origin of goods).
package country

import (
	"context"

	"autoparts/internal/core/entity"
	"autoparts/internal/core/tx"
	"autoparts/internal/domain"
)

// Country is a country of origin. Products from the same supplier line but
// different origins are tracked as distinct stock rows.
type Country struct {
	entity.Catalog

	// FlagURL points at a flag image served by the admin frontend
	FlagURL string `db:"flag_url" json:"flagUrl,omitempty"`
}

// NewCountry creates a Country.
func NewCountry(name string) *Country {
	return &Country{Catalog: entity.NewCatalog(name)}
}

// Validate implements entity.Validatable interface.
func (c *Country) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}

// Repository defines the interface for Country persistence.
type Repository interface {
	domain.CatalogRepository[*Country]
}

// Service provides business logic for the Country catalog.
type Service struct {
	*domain.CatalogService[*Country]
}

// NewService creates a new Country service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Country]{
			Repo:       repo,
			TxManager:  txm,
			EntityName: "country",
		}),
	}
}
