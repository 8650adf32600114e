package document_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/sales"
)

func TestArrivalListQuery_InclusiveDates(t *testing.T) {
	repo := NewArrivalRepo(nil)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	sql, args, err := repo.listQuery(inventory.ArrivalFilter{DateFrom: &from, DateTo: &to}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM doc_arrivals WHERE arrival_date >= $1 AND arrival_date <= $2")
	assert.Equal(t, []any{from, to}, args)
}

func TestSaleListQuery_ExclusiveUpperBound(t *testing.T) {
	repo := NewSaleRepo(nil)
	clientID := id.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	sql, _, err := repo.listQuery(sales.SaleFilter{ClientID: &clientID, DateFrom: &from, DateTo: &to}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE client_id = $1 AND sale_date >= $2 AND sale_date < $3")
}

func TestPaymentListQuery(t *testing.T) {
	repo := NewPaymentRepo(nil)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	sql, _, err := repo.listQuery(sales.PaymentFilter{DateTo: &to}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM doc_payments WHERE payment_date < $1")
}

func TestItemUpdate_OptimisticLock(t *testing.T) {
	repo := NewSaleRepo(nil)
	item := sales.NewSaleItem(id.New(), 2, types.MustMoney("9.50"))
	item.Version = 3

	q, _, err := repo.items.updateQuery(item)
	require.NoError(t, err)
	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE doc_sale_items SET product_id = $1, quantity = $2, sale_id = $3, sale_price = $4, updated_at = $5, "+
			"version = version + 1 WHERE id = $6 AND version = $7",
		sql)
	assert.Equal(t, 3, args[len(args)-1])
}

func TestParseOrderBy_Documents(t *testing.T) {
	repo := NewArrivalRepo(nil)

	got, err := repo.parseOrderBy("")
	require.NoError(t, err)
	assert.Equal(t, "arrival_date DESC", got)

	got, err = repo.parseOrderBy("-created_at")
	require.NoError(t, err)
	assert.Equal(t, "created_at DESC", got)

	_, err = repo.parseOrderBy("total")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
