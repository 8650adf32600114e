// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/reports"
	"autoparts/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReportRepo) selectAll(ctx context.Context, dst any, q squirrel.Sqlizer) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), dst, sql, args...)
}

func (r *ReportRepo) inventoryQuery(warehouseID *id.ID) squirrel.SelectBuilder {
	q := r.builder.
		Select(
			"w.id AS warehouse_id",
			"w.name AS warehouse_name",
			"COUNT(p.id) AS product_count",
			"COALESCE(SUM(p.quantity), 0)::bigint AS total_quantity",
			"COALESCE(SUM(p.quantity * COALESCE(p.cost_price, 0)), 0) AS total_cost_value",
			"COALESCE(SUM(p.quantity * COALESCE(p.selling_price, 0)), 0) AS total_selling_value",
		).
		From("cat_warehouses w").
		LeftJoin("products p ON p.warehouse_id = w.id").
		GroupBy("w.id", "w.name").
		OrderBy("w.name", "w.id")
	if warehouseID != nil {
		q = q.Where(squirrel.Eq{"w.id": *warehouseID})
	}
	return q
}

// InventoryByWarehouse lists every warehouse, including empty ones.
func (r *ReportRepo) InventoryByWarehouse(ctx context.Context, warehouseID *id.ID) ([]reports.WarehouseInventory, error) {
	rows := make([]reports.WarehouseInventory, 0)
	if err := r.selectAll(ctx, &rows, r.inventoryQuery(warehouseID)); err != nil {
		return nil, fmt.Errorf("inventory by warehouse: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) unsoldQuery(since time.Time, filter reports.UnsoldFilter) squirrel.SelectBuilder {
	// Nested selects keep "?" so the outer query numbers every placeholder.
	recent := squirrel.
		Select("1").
		From("doc_sale_items si").
		Join("doc_sales s ON s.id = si.sale_id").
		Where("si.product_id = p.id").
		Where(squirrel.GtOrEq{"s.sale_date": since})

	q := r.builder.
		Select(
			"p.id AS product_id", "p.name", "p.article_number",
			"w.name AS warehouse_name", "b.name AS brand_name",
			"p.quantity", "p.cost_price",
		).
		From("products p").
		Join("cat_warehouses w ON w.id = p.warehouse_id").
		Join("cat_brands b ON b.id = p.brand_id").
		Where(squirrel.Expr("NOT EXISTS (?)", recent))
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"p.warehouse_id": *filter.WarehouseID})
	}
	return q
}

// UnsoldProducts lists products with no sale at or after since.
func (r *ReportRepo) UnsoldProducts(ctx context.Context, since time.Time, filter reports.UnsoldFilter) ([]reports.UnsoldProduct, int64, error) {
	q := r.unsoldQuery(since, filter)

	countSQL, countArgs, err := r.builder.Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count unsold: %w", err)
	}

	q = q.OrderBy("p.name", "p.id")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	rows := make([]reports.UnsoldProduct, 0)
	if err := r.selectAll(ctx, &rows, q); err != nil {
		return nil, 0, fmt.Errorf("unsold products: %w", err)
	}
	return rows, total, nil
}

func inPeriod(col string, period reports.Period) squirrel.And {
	return squirrel.And{
		squirrel.GtOrEq{col: period.From},
		squirrel.Lt{col: period.To},
	}
}

// soldItems selects items of sales inside period, joined with their sale.
func (r *ReportRepo) soldItems(period reports.Period, cols ...string) squirrel.SelectBuilder {
	return r.builder.
		Select(cols...).
		From("doc_sale_items si").
		Join("doc_sales s ON s.id = si.sale_id").
		Where(inPeriod("s.sale_date", period))
}

func (r *ReportRepo) SalesTotals(ctx context.Context, period reports.Period) (int64, types.Money, error) {
	countQ := r.builder.Select("COUNT(*)").From("doc_sales").Where(inPeriod("sale_date", period))
	revenueQ := r.soldItems(period, "COALESCE(SUM(si.quantity * si.sale_price), 0)")

	querier := r.txManager.GetQuerier(ctx)

	sql, args, err := countQ.ToSql()
	if err != nil {
		return 0, types.Zero(), fmt.Errorf("build count: %w", err)
	}
	var count int64
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, types.Zero(), fmt.Errorf("count sales: %w", err)
	}

	sql, args, err = revenueQ.ToSql()
	if err != nil {
		return 0, types.Zero(), fmt.Errorf("build revenue: %w", err)
	}
	revenue := types.Zero()
	if err := querier.QueryRow(ctx, sql, args...).Scan(&revenue); err != nil {
		return 0, types.Zero(), fmt.Errorf("sales revenue: %w", err)
	}
	return count, revenue, nil
}

func (r *ReportRepo) monthlyQuery(period reports.Period) squirrel.SelectBuilder {
	revenue := squirrel.
		Select("si.sale_id", "SUM(si.quantity * si.sale_price) AS amount").
		From("doc_sale_items si").
		GroupBy("si.sale_id")

	return r.builder.
		Select(
			"date_trunc('month', s.sale_date) AS month",
			"COUNT(*) AS sale_count",
			"COALESCE(SUM(t.amount), 0) AS revenue",
		).
		From("doc_sales s").
		JoinClause(revenue.Prefix("LEFT JOIN (").Suffix(") t ON t.sale_id = s.id")).
		Where(inPeriod("s.sale_date", period)).
		GroupBy("month").
		OrderBy("month")
}

func (r *ReportRepo) MonthlySales(ctx context.Context, period reports.Period) ([]reports.MonthlySales, error) {
	rows := make([]reports.MonthlySales, 0)
	if err := r.selectAll(ctx, &rows, r.monthlyQuery(period)); err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) TopProducts(ctx context.Context, period reports.Period, limit int) ([]reports.ProductSales, error) {
	q := r.soldItems(period,
		"p.id AS product_id", "p.name", "p.article_number", "b.name AS brand_name",
		"SUM(si.quantity)::bigint AS quantity_sold",
		"SUM(si.quantity * si.sale_price) AS revenue",
	).
		Join("products p ON p.id = si.product_id").
		Join("cat_brands b ON b.id = p.brand_id").
		GroupBy("p.id", "p.name", "p.article_number", "b.name").
		OrderBy("quantity_sold DESC", "p.id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	rows := make([]reports.ProductSales, 0)
	if err := r.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) SalesByBrand(ctx context.Context, period reports.Period) ([]reports.BrandSales, error) {
	q := r.soldItems(period,
		"b.id AS brand_id", "b.name AS brand_name",
		"SUM(si.quantity)::bigint AS quantity_sold",
		"SUM(si.quantity * si.sale_price) AS revenue",
	).
		Join("products p ON p.id = si.product_id").
		Join("cat_brands b ON b.id = p.brand_id").
		GroupBy("b.id", "b.name").
		OrderBy("revenue DESC", "b.id")

	rows := make([]reports.BrandSales, 0)
	if err := r.selectAll(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("sales by brand: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) profitQuery(period reports.Period) squirrel.SelectBuilder {
	return r.soldItems(period,
		"date_trunc('month', s.sale_date AT TIME ZONE 'UTC') AS month",
		"p.id AS product_id", "p.name", "p.article_number", "b.name AS brand_name",
		"SUM(si.quantity)::bigint AS quantity_sold",
		"SUM(si.quantity * si.sale_price) AS revenue",
		"SUM(si.quantity * COALESCE(p.cost_price, 0)) AS cogs",
	).
		Join("products p ON p.id = si.product_id").
		Join("cat_brands b ON b.id = p.brand_id").
		GroupBy("month", "p.id", "p.name", "p.article_number", "b.name").
		OrderBy("month", "p.id")
}

func (r *ReportRepo) ProfitRows(ctx context.Context, period reports.Period) ([]reports.ProfitRow, error) {
	rows := make([]reports.ProfitRow, 0)
	if err := r.selectAll(ctx, &rows, r.profitQuery(period)); err != nil {
		return nil, fmt.Errorf("profit rows: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) saleItemsQuery(period *reports.Period) squirrel.SelectBuilder {
	q := r.builder.
		Select(
			"s.id AS sale_id", "s.sale_date", "c.full_name AS client_name",
			"p.name AS product_name", "p.article_number",
			"si.quantity", "si.sale_price",
		).
		From("doc_sale_items si").
		Join("doc_sales s ON s.id = si.sale_id").
		Join("cat_clients c ON c.id = s.client_id").
		Join("products p ON p.id = si.product_id").
		OrderBy("s.sale_date", "s.id", "si.id")
	if period != nil {
		q = q.Where(inPeriod("s.sale_date", *period))
	}
	return q
}

func (r *ReportRepo) SaleItemRows(ctx context.Context, period *reports.Period) ([]reports.SaleItemRow, error) {
	rows := make([]reports.SaleItemRow, 0)
	if err := r.selectAll(ctx, &rows, r.saleItemsQuery(period)); err != nil {
		return nil, fmt.Errorf("sale item rows: %w", err)
	}
	return rows, nil
}

var _ reports.Repository = (*ReportRepo)(nil)
