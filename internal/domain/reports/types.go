// Package reports provides read-only analytics over stock and sales.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
)

// Period is a half-open time range [From, To).
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// DayPeriod covers whole days from the first through the last, inclusive.
func DayPeriod(first, last time.Time) Period {
	from := truncateDay(first)
	return Period{From: from, To: truncateDay(last).AddDate(0, 0, 1)}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// --- Inventory ---

// WarehouseInventory is the stock value held in one warehouse.
type WarehouseInventory struct {
	WarehouseID       id.ID       `json:"warehouseId" db:"warehouse_id"`
	WarehouseName     string      `json:"warehouseName" db:"warehouse_name"`
	ProductCount      int64       `json:"productCount" db:"product_count"`
	TotalQuantity     int64       `json:"totalQuantity" db:"total_quantity"`
	TotalCostValue    types.Money `json:"totalCostValue" db:"total_cost_value"`
	TotalSellingValue types.Money `json:"totalSellingValue" db:"total_selling_value"`
	PotentialProfit   types.Money `json:"potentialProfit" db:"-"`
}

// InventoryReport is stock value per warehouse with grand totals.
// Products without a price count as zero value.
type InventoryReport struct {
	Warehouses        []WarehouseInventory `json:"warehouses"`
	TotalQuantity     int64                `json:"totalQuantity"`
	TotalCostValue    types.Money          `json:"totalCostValue"`
	TotalSellingValue types.Money          `json:"totalSellingValue"`
	PotentialProfit   types.Money          `json:"potentialProfit"`
}

// --- Unsold products ---

// UnsoldFilter selects products with no sale in the last Days days.
type UnsoldFilter struct {
	Days        int
	WarehouseID *id.ID
	Limit       int
	Offset      int
}

// UnsoldProduct is a product not sold since the report cutoff.
type UnsoldProduct struct {
	ProductID     id.ID        `json:"productId" db:"product_id"`
	Name          string       `json:"name" db:"name"`
	ArticleNumber string       `json:"articleNumber,omitempty" db:"article_number"`
	WarehouseName string       `json:"warehouseName" db:"warehouse_name"`
	BrandName     string       `json:"brandName" db:"brand_name"`
	Quantity      int64        `json:"quantity" db:"quantity"`
	CostPrice     *types.Money `json:"costPrice,omitempty" db:"cost_price"`
}

// UnsoldReport lists slow-moving stock.
type UnsoldReport struct {
	Since      time.Time       `json:"since"`
	Items      []UnsoldProduct `json:"items"`
	TotalCount int64           `json:"totalCount"`
}

// --- Sales ---

// MonthlySales aggregates sales by calendar month.
type MonthlySales struct {
	Month     time.Time   `json:"month" db:"month"`
	SaleCount int64       `json:"saleCount" db:"sale_count"`
	Revenue   types.Money `json:"revenue" db:"revenue"`
}

// ProductSales aggregates sold quantity per product.
type ProductSales struct {
	ProductID     id.ID       `json:"productId" db:"product_id"`
	Name          string      `json:"name" db:"name"`
	ArticleNumber string      `json:"articleNumber,omitempty" db:"article_number"`
	BrandName     string      `json:"brandName" db:"brand_name"`
	QuantitySold  int64       `json:"quantitySold" db:"quantity_sold"`
	Revenue       types.Money `json:"revenue" db:"revenue"`
}

// BrandSales aggregates revenue per brand.
type BrandSales struct {
	BrandID      id.ID       `json:"brandId" db:"brand_id"`
	BrandName    string      `json:"brandName" db:"brand_name"`
	QuantitySold int64       `json:"quantitySold" db:"quantity_sold"`
	Revenue      types.Money `json:"revenue" db:"revenue"`
}

// SalesSummaryFilter selects the period and how many top products to list.
type SalesSummaryFilter struct {
	From *time.Time
	To   *time.Time
	Top  int
}

// SalesSummary is sales activity over a period.
type SalesSummary struct {
	Period      Period         `json:"period"`
	SaleCount   int64          `json:"saleCount"`
	Revenue     types.Money    `json:"revenue"`
	Monthly     []MonthlySales `json:"monthly"`
	TopProducts []ProductSales `json:"topProducts"`
	ByBrand     []BrandSales   `json:"byBrand"`
}

// --- Profit ---

// ProfitFilter selects the calendar year and how many products to rank.
type ProfitFilter struct {
	Year int
	Top  int
}

// ProfitRow is what one product sold in one month: quantity, revenue and
// cost of goods at the product's cost price. Products without a cost price
// contribute no cost.
type ProfitRow struct {
	Month         time.Time   `db:"month"`
	ProductID     id.ID       `db:"product_id"`
	Name          string      `db:"name"`
	ArticleNumber string      `db:"article_number"`
	BrandName     string      `db:"brand_name"`
	QuantitySold  int64       `db:"quantity_sold"`
	Revenue       types.Money `db:"revenue"`
	COGS          types.Money `db:"cogs"`
}

// MonthlyProfit is revenue against cost of goods sold for one month.
type MonthlyProfit struct {
	Month   time.Time   `json:"month"`
	Revenue types.Money `json:"revenue"`
	COGS    types.Money `json:"cogs"`
	Profit  types.Money `json:"profit"`
	Margin  types.Money `json:"marginPercent"`
}

// ProductProfit is the realised profit on one product over the year.
type ProductProfit struct {
	ProductID     id.ID       `json:"productId"`
	Name          string      `json:"name"`
	ArticleNumber string      `json:"articleNumber,omitempty"`
	BrandName     string      `json:"brandName"`
	QuantitySold  int64       `json:"quantitySold"`
	Revenue       types.Money `json:"revenue"`
	COGS          types.Money `json:"cogs"`
	Profit        types.Money `json:"profit"`
	Margin        types.Money `json:"marginPercent"`
}

// ProfitReport is realised profit for a calendar year. Monthly always has
// twelve entries; Revenue is the annual turnover.
type ProfitReport struct {
	Year        int             `json:"year"`
	Period      Period          `json:"period"`
	Monthly     []MonthlyProfit `json:"monthly"`
	Revenue     types.Money     `json:"revenue"`
	COGS        types.Money     `json:"cogs"`
	Profit      types.Money     `json:"profit"`
	Margin      types.Money     `json:"marginPercent"`
	TopProducts []ProductProfit `json:"topProducts"`
}

// MarginPercent is profit as a percentage of revenue, to two places.
// Zero revenue gives a zero margin.
func MarginPercent(profit, revenue types.Money) types.Money {
	if revenue.IsZero() {
		return types.Zero()
	}
	return profit.Mul(decimal.NewFromInt(100)).Div(revenue).Round(2)
}

// --- Sale item export ---

// SaleItemRow is one exported sale item, flattened with its sale and product.
type SaleItemRow struct {
	SaleID        id.ID       `json:"saleId" db:"sale_id"`
	SaleDate      time.Time   `json:"saleDate" db:"sale_date"`
	ClientName    string      `json:"clientName" db:"client_name"`
	ProductName   string      `json:"productName" db:"product_name"`
	ArticleNumber string      `json:"articleNumber" db:"article_number"`
	Quantity      int64       `json:"quantity" db:"quantity"`
	SalePrice     types.Money `json:"salePrice" db:"sale_price"`
}

// Total is quantity × sale price.
func (r SaleItemRow) Total() types.Money {
	return types.LineTotal(r.Quantity, r.SalePrice)
}

// SaleItemExport is the data behind the sale item spreadsheet. A nil
// Period means all time.
type SaleItemExport struct {
	Period *Period       `json:"period,omitempty"`
	Rows   []SaleItemRow `json:"rows"`
	Total  types.Money   `json:"total"`
}
