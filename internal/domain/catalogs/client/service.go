package client

import (
	"context"
	"fmt"

	"autoparts/internal/core/id"
	"autoparts/internal/core/tx"
	"autoparts/internal/core/types"
	"autoparts/internal/domain"
)

// Repository defines the interface for Client persistence.
type Repository interface {
	domain.CatalogRepository[*Client]

	// GetForUpdate retrieves the client with a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id id.ID) (*Client, error)

	// SetBalance overwrites the stored balance. Callers must hold the row lock.
	SetBalance(ctx context.Context, id id.ID, balance types.Money) error
}

// Service provides business logic for the Client catalog.
type Service struct {
	*domain.CatalogService[*Client]
	repo Repository
}

// NewService creates a new Client service.
func NewService(repo Repository, txm tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "client",
	})

	svc := &Service{CatalogService: base, repo: repo}
	base.Hooks().OnBeforeCreate(svc.resetBalance)
	base.Hooks().OnBeforeUpdate(svc.keepBalance)

	return svc
}

// resetBalance makes every new client start with nothing owed.
func (s *Service) resetBalance(ctx context.Context, c *Client) error {
	c.Balance = types.Zero()
	return nil
}

// keepBalance replaces any balance carried by the edit with the locked stored value.
func (s *Service) keepBalance(ctx context.Context, c *Client) error {
	current, err := s.repo.GetForUpdate(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("lock client: %w", err)
	}
	c.Balance = current.Balance
	return nil
}
