package report_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/domain/reports"
)

func TestInventoryQuery_KeepsEmptyWarehouses(t *testing.T) {
	sql, args, err := NewReportRepo(nil).inventoryQuery(nil).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM cat_warehouses w LEFT JOIN products p ON p.warehouse_id = w.id")
	assert.Contains(t, sql, "COALESCE(p.cost_price, 0)")
	assert.Contains(t, sql, "GROUP BY w.id, w.name")
	assert.Empty(t, args)
}

func TestUnsoldQuery_NestedPlaceholders(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := NewReportRepo(nil).unsoldQuery(since, reports.UnsoldFilter{}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "NOT EXISTS (SELECT 1 FROM doc_sale_items si JOIN doc_sales s ON s.id = si.sale_id")
	assert.Contains(t, sql, "s.sale_date >= $1")
	assert.Equal(t, []any{since}, args)
}

func TestMonthlyQuery(t *testing.T) {
	period := reports.DayPeriod(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	)

	sql, args, err := NewReportRepo(nil).monthlyQuery(period).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "LEFT JOIN (SELECT si.sale_id, SUM(si.quantity * si.sale_price) AS amount")
	assert.Contains(t, sql, "WHERE (s.sale_date >= $1 AND s.sale_date < $2)")
	assert.Equal(t, []any{period.From, period.To}, args)
}

func TestSaleItemsQuery_AllTime(t *testing.T) {
	sql, args, err := NewReportRepo(nil).saleItemsQuery(nil).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "ORDER BY s.sale_date, s.id, si.id")
	assert.Empty(t, args)
}

func TestProfitQuery(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	period := reports.Period{From: from, To: from.AddDate(1, 0, 0)}

	sql, args, err := NewReportRepo(nil).profitQuery(period).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "date_trunc('month', s.sale_date AT TIME ZONE 'UTC') AS month")
	assert.Contains(t, sql, "SUM(si.quantity * COALESCE(p.cost_price, 0)) AS cogs")
	assert.Contains(t, sql, "WHERE (s.sale_date >= $1 AND s.sale_date < $2)")
	assert.Contains(t, sql, "GROUP BY month, p.id, p.name, p.article_number, b.name")
	assert.Equal(t, []any{period.From, period.To}, args)
}
