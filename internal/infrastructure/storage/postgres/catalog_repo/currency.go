package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/domain/catalogs/currency"
	"autoparts/internal/infrastructure/storage/postgres"
)

const rateTable = "cat_currency_rates"

// RateRepo implements currency.Repository.
type RateRepo struct {
	*BaseCatalogRepo[*currency.Rate]
}

// NewRateRepo creates a new currency rate repository.
func NewRateRepo(txManager *postgres.TxManager) *RateRepo {
	return &RateRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			CatalogTable{Name: rateTable, Entity: "currency rate", SearchColumn: "currency_code"},
			postgres.ExtractDBColumns[currency.Rate](),
			func() *currency.Rate { return &currency.Rate{} },
		),
	}
}

// FindByCode retrieves a rate by its ISO code.
func (r *RateRepo) FindByCode(ctx context.Context, code string) (*currency.Rate, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"currency_code": code}), code)
}

// FindSelected returns the display currency.
func (r *RateRepo) FindSelected(ctx context.Context) (*currency.Rate, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"selected": true}), "selected")
}

// LockSelection takes a transaction-scoped advisory lock.
func (r *RateRepo) LockSelection(ctx context.Context) error {
	if _, err := r.querier(ctx).Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext('currency_selection'))"); err != nil {
		return fmt.Errorf("lock currency selection: %w", err)
	}
	return nil
}

// SetSelected marks rateID as the only selected rate. A nil ID clears the selection.
// The clear runs first so the one-selected index never sees two rows.
func (r *RateRepo) SetSelected(ctx context.Context, rateID id.ID) error {
	unset, mark := selectRateQueries(rateID)

	if err := r.exec(ctx, unset); err != nil {
		return fmt.Errorf("clear selected rate: %w", err)
	}
	if id.IsNil(rateID) {
		return nil
	}

	sql, args, err := mark.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark selected rate: %w", postgres.MapError(err, "currency rate", rateID.String()))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("currency rate", rateID.String())
	}
	return nil
}

func (r *RateRepo) exec(ctx context.Context, q squirrel.UpdateBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	_, err = r.querier(ctx).Exec(ctx, sql, args...)
	return err
}

func selectRateQueries(rateID id.ID) (unset, mark squirrel.UpdateBuilder) {
	b := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	unset = b.Update(rateTable).
		Set("selected", false).
		Where(squirrel.Eq{"selected": true})
	mark = b.Update(rateTable).
		Set("selected", true).
		Where(squirrel.Eq{"id": rateID})
	return unset, mark
}

var _ currency.Repository = (*RateRepo)(nil)
