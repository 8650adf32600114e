package sales

import (
	"context"
	"fmt"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/tx"
	"autoparts/internal/domain"
	"autoparts/internal/domain/adjustment"
)

// PaymentService records client payments against their balance.
type PaymentService struct {
	payments  PaymentRepository
	balances  Balances
	txManager tx.Manager
	journal   *adjustment.Journal
}

// NewPaymentService creates a new payment service.
func NewPaymentService(payments PaymentRepository, balances Balances, txManager tx.Manager, journal *adjustment.Journal) *PaymentService {
	return &PaymentService{
		payments:  payments,
		balances:  balances,
		txManager: txManager,
		journal:   journal,
	}
}

// Create stores a payment and reduces what the client owes.
func (s *PaymentService) Create(ctx context.Context, p *Payment) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.balances.GetForUpdate(ctx, p.ClientID)
		if err != nil {
			return err
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		delta := p.Amount.Neg()
		if err := s.balances.SetBalance(ctx, c.ID, c.Balance.Add(delta)); err != nil {
			return fmt.Errorf("set balance: %w", err)
		}
		events = []adjustment.Event{adjustment.BalanceChange(
			c.ID, adjustment.SourcePayment, p.ID, adjustment.ActionCreate, c.Balance, delta)}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	return nil
}

// Delete removes a payment and restores the amount to the client's balance.
func (s *PaymentService) Delete(ctx context.Context, paymentID id.ID) error {
	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payments.GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		c, err := s.balances.GetForUpdate(ctx, p.ClientID)
		if err != nil {
			return err
		}
		if err := s.payments.Delete(ctx, paymentID); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}
		if err := s.balances.SetBalance(ctx, c.ID, c.Balance.Add(p.Amount)); err != nil {
			return fmt.Errorf("set balance: %w", err)
		}
		events = []adjustment.Event{adjustment.BalanceChange(
			c.ID, adjustment.SourcePayment, p.ID, adjustment.ActionDelete, c.Balance, p.Amount)}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	return nil
}

// Update always fails: a wrong payment is deleted and entered again.
func (s *PaymentService) Update(ctx context.Context, paymentID id.ID) error {
	if _, err := s.payments.GetByID(ctx, paymentID); err != nil {
		return err
	}
	s.journal.Rejected(ctx, apperror.CodeImmutableRecord, "payment_id", paymentID)
	return apperror.NewImmutableRecord("payment", paymentID.String())
}

// GetByID returns a payment.
func (s *PaymentService) GetByID(ctx context.Context, paymentID id.ID) (*Payment, error) {
	return s.payments.GetByID(ctx, paymentID)
}

// List returns payments matching filter, newest first.
func (s *PaymentService) List(ctx context.Context, filter PaymentFilter) (domain.ListResult[*Payment], error) {
	filter.Normalize()
	return s.payments.List(ctx, filter)
}
