package reports

import (
	"context"
	"time"

	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
)

// Repository defines report data access interface.
type Repository interface {
	// Stock reports
	InventoryByWarehouse(ctx context.Context, warehouseID *id.ID) ([]WarehouseInventory, error)
	UnsoldProducts(ctx context.Context, since time.Time, filter UnsoldFilter) ([]UnsoldProduct, int64, error)

	// Sales reports
	SalesTotals(ctx context.Context, period Period) (count int64, revenue types.Money, err error)
	MonthlySales(ctx context.Context, period Period) ([]MonthlySales, error)
	TopProducts(ctx context.Context, period Period, limit int) ([]ProductSales, error)
	SalesByBrand(ctx context.Context, period Period) ([]BrandSales, error)

	// ProfitRows returns one row per product and calendar month (UTC) for
	// items of sales inside period.
	ProfitRows(ctx context.Context, period Period) ([]ProfitRow, error)

	// SaleItemRows returns items of sales inside period, or all when period is nil,
	// ordered by sale date.
	SaleItemRows(ctx context.Context, period *Period) ([]SaleItemRow, error)
}
