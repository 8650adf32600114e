package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"autoparts/internal/core/id"
	"autoparts/internal/domain"
	"autoparts/internal/domain/sales"
	"autoparts/internal/infrastructure/storage/postgres"
)

const paymentsTable = "doc_payments"

// PaymentRepo implements sales.PaymentRepository. Payments have no
// version column and are never updated.
type PaymentRepo struct {
	base *BaseDocumentRepo[*sales.Payment]
}

// NewPaymentRepo creates a new payment repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		base: NewBaseDocumentRepo(
			txManager, paymentsTable, "payment", "payment_date DESC",
			postgres.ExtractDBColumns[sales.Payment](),
			func() *sales.Payment { return &sales.Payment{} },
		),
	}
}

func (r *PaymentRepo) Create(ctx context.Context, p *sales.Payment) error {
	return r.base.Create(ctx, p)
}

func (r *PaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (*sales.Payment, error) {
	return r.base.GetByID(ctx, paymentID)
}

func (r *PaymentRepo) GetForUpdate(ctx context.Context, paymentID id.ID) (*sales.Payment, error) {
	return r.base.GetForUpdate(ctx, paymentID)
}

func (r *PaymentRepo) Delete(ctx context.Context, paymentID id.ID) error {
	return r.base.Delete(ctx, paymentID)
}

// List returns payments. DateTo is exclusive.
func (r *PaymentRepo) List(ctx context.Context, filter sales.PaymentFilter) (domain.ListResult[*sales.Payment], error) {
	return r.base.List(ctx, r.listQuery(filter), filter.ListFilter)
}

func (r *PaymentRepo) listQuery(filter sales.PaymentFilter) squirrel.SelectBuilder {
	q := r.base.baseSelect()
	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"payment_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"payment_date": *filter.DateTo})
	}
	return q
}

var _ sales.PaymentRepository = (*PaymentRepo)(nil)
