package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/domain"
	"autoparts/internal/domain/sales"
	"autoparts/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "doc_sales"
	saleItemsTable = "doc_sale_items"
)

// SaleRepo implements sales.SaleRepository.
type SaleRepo struct {
	*BaseDocumentRepo[*sales.Sale]
	items *BaseDocumentRepo[*sales.SaleItem]
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager, salesTable, "sale", "sale_date DESC",
			postgres.ExtractDBColumns[sales.Sale](),
			func() *sales.Sale { return &sales.Sale{Items: make([]sales.SaleItem, 0)} },
		),
		items: NewBaseDocumentRepo(
			txManager, saleItemsTable, "sale item", "id ASC",
			postgres.ExtractDBColumns[sales.SaleItem](),
			func() *sales.SaleItem { return &sales.SaleItem{} },
		),
	}
}

// SetClient moves the sale to another client.
func (r *SaleRepo) SetClient(ctx context.Context, saleID, clientID id.ID) error {
	sql, args, err := r.Builder().
		Update(salesTable).
		Set("client_id", clientID).
		Set("updated_at", time.Now().UTC()).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": saleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set sale client: %w", postgres.MapError(err, "sale", saleID.String()))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}
	return nil
}

// List returns sale headers. DateTo is exclusive.
func (r *SaleRepo) List(ctx context.Context, filter sales.SaleFilter) (domain.ListResult[*sales.Sale], error) {
	return r.BaseDocumentRepo.List(ctx, r.listQuery(filter), filter.ListFilter)
}

func (r *SaleRepo) listQuery(filter sales.SaleFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"sale_date": *filter.DateTo})
	}
	return q
}

func (r *SaleRepo) CountItems(ctx context.Context, saleID id.ID) (int, error) {
	return r.items.CountBy(ctx, "sale_id", saleID)
}

func (r *SaleRepo) ListItems(ctx context.Context, saleIDs ...id.ID) ([]sales.SaleItem, error) {
	rows, err := r.items.SelectWhere(ctx, squirrel.Eq{"sale_id": saleIDs})
	if err != nil {
		return nil, err
	}
	out := make([]sales.SaleItem, 0, len(rows))
	for _, item := range rows {
		out = append(out, *item)
	}
	return out, nil
}

func (r *SaleRepo) CreateItem(ctx context.Context, item *sales.SaleItem) error {
	return r.items.Create(ctx, item)
}

func (r *SaleRepo) GetItemForUpdate(ctx context.Context, itemID id.ID) (*sales.SaleItem, error) {
	return r.items.GetForUpdate(ctx, itemID)
}

func (r *SaleRepo) UpdateItem(ctx context.Context, item *sales.SaleItem) error {
	return r.items.Update(ctx, item)
}

func (r *SaleRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	return r.items.Delete(ctx, itemID)
}

var _ sales.SaleRepository = (*SaleRepo)(nil)
