package currency

import (
	"context"
	"fmt"
	"time"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/tx"
	"autoparts/internal/core/types"
	"autoparts/internal/domain"
	"autoparts/pkg/logger"
)

// Service provides business logic for currency rates.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Rate]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new currency rate service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Rate]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "currency rate",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

// prepare stamps the rate, checks code uniqueness and, for a selected rate,
// clears every other selection in the same transaction.
func (s *Service) prepare(ctx context.Context, r *Rate) error {
	r.Code = NormalizeCode(r.Code)
	r.LastUpdated = time.Now().UTC()

	existing, err := s.repo.FindByCode(ctx, r.Code)
	switch {
	case err == nil && existing.ID != r.ID:
		return apperror.NewDuplicate("currency rate", "currencyCode", r.Code)
	case err != nil && !apperror.IsNotFound(err):
		return fmt.Errorf("find currency rate: %w", err)
	}

	if !r.Selected {
		return nil
	}
	if r.Code == BaseCode {
		return apperror.NewValidation("USD is the base currency and cannot be selected as a rate").
			WithDetail("field", "selected")
	}
	if err := s.repo.LockSelection(ctx); err != nil {
		return fmt.Errorf("lock selection: %w", err)
	}
	return s.repo.SetSelected(ctx, id.Nil())
}

// Select makes code the display currency. Selecting USD clears the selection.
func (s *Service) Select(ctx context.Context, code string) (*Rate, error) {
	code = NormalizeCode(code)

	var selected *Rate
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockSelection(ctx); err != nil {
			return fmt.Errorf("lock selection: %w", err)
		}
		if code == BaseCode {
			return s.repo.SetSelected(ctx, id.Nil())
		}

		r, err := s.repo.FindByCode(ctx, code)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("currency rate", code)
			}
			return err
		}
		if err := s.repo.SetSelected(ctx, r.ID); err != nil {
			return err
		}
		r.Selected = true
		selected = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "display currency selected", "code", code)
	return selected, nil
}

// Selected returns the display currency rate, or nil when amounts are shown in USD.
func (s *Service) Selected(ctx context.Context) (*Rate, error) {
	r, err := s.repo.FindSelected(ctx)
	if apperror.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FormatFromUSD renders a USD amount in the display currency.
func (s *Service) FormatFromUSD(ctx context.Context, amount types.Money) (string, error) {
	r, err := s.Selected(ctx)
	if err != nil {
		return "", err
	}
	return Format(amount, r), nil
}
