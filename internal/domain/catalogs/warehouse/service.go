package warehouse

import (
	"autoparts/internal/core/tx"
	"autoparts/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]
}

// Service provides business logic for Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
			Repo:       repo,
			TxManager:  txm,
			EntityName: "warehouse",
		}),
	}
}
