package inventory

import (
	"context"
	"fmt"
	"strings"

	"autoparts/internal/core/id"
	"autoparts/internal/core/tx"
	"autoparts/internal/core/types"
	"autoparts/internal/domain"
)

// ProductService exposes product reads and the fields staff may edit by hand.
// Quantity and cost price are never edited here.
type ProductService struct {
	repo      ProductRepository
	txManager tx.Manager
}

// NewProductService creates a new product service.
func NewProductService(repo ProductRepository, txManager tx.Manager) *ProductService {
	return &ProductService{repo: repo, txManager: txManager}
}

// GetByID returns a product.
func (s *ProductService) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns products matching filter.
func (s *ProductService) List(ctx context.Context, filter ProductFilter) (domain.ListResult[*Product], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// DetailsPatch carries the optional fields of a product edit.
type DetailsPatch struct {
	SellingPrice      *types.Money
	ClearSellingPrice bool
	SuitsFor          *string

	// Version, when non-zero, must match the stored version.
	Version int
}

// UpdateDetails applies patch to the product under a row lock.
func (s *ProductService) UpdateDetails(ctx context.Context, productID id.ID, patch DetailsPatch) (*Product, error) {
	var updated *Product
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if patch.Version != 0 {
			p.Version = patch.Version
		}

		switch {
		case patch.ClearSellingPrice:
			p.SellingPrice = nil
		case patch.SellingPrice != nil:
			p.SellingPrice = types.MoneyPtr(*patch.SellingPrice)
		}
		if patch.SuitsFor != nil {
			p.SuitsFor = strings.TrimSpace(*patch.SuitsFor)
		}
		if err := p.Validate(ctx); err != nil {
			return err
		}

		p.Touch()
		if err := s.repo.UpdateDetails(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
