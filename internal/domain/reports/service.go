package reports

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/tx"
	"autoparts/internal/core/types"
)

// Service provides report generation operations.
type Service struct {
	repo      Repository
	txManager tx.ReadOnlyManager
	now       func() time.Time
}

// NewService creates a new reports service. Multi-query reports run in one
// read-only transaction so their parts agree.
func NewService(repo Repository, txManager tx.ReadOnlyManager) *Service {
	return &Service{repo: repo, txManager: txManager, now: time.Now}
}

// Inventory returns stock value per warehouse.
func (s *Service) Inventory(ctx context.Context, warehouseID *id.ID) (*InventoryReport, error) {
	rows, err := s.repo.InventoryByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("get inventory report: %w", err)
	}

	report := &InventoryReport{
		Warehouses:        rows,
		TotalCostValue:    types.Zero(),
		TotalSellingValue: types.Zero(),
	}
	for i := range report.Warehouses {
		w := &report.Warehouses[i]
		w.PotentialProfit = w.TotalSellingValue.Sub(w.TotalCostValue)
		report.TotalQuantity += w.TotalQuantity
		report.TotalCostValue = report.TotalCostValue.Add(w.TotalCostValue)
		report.TotalSellingValue = report.TotalSellingValue.Add(w.TotalSellingValue)
	}
	report.PotentialProfit = report.TotalSellingValue.Sub(report.TotalCostValue)
	return report, nil
}

// Unsold lists products without sales in the last filter.Days days (default 30).
func (s *Service) Unsold(ctx context.Context, filter UnsoldFilter) (*UnsoldReport, error) {
	if filter.Days <= 0 {
		filter.Days = 30
	}
	if filter.Days > 3650 {
		return nil, apperror.NewValidation("days must not exceed 3650").WithDetail("field", "days")
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	since := truncateDay(s.now()).AddDate(0, 0, -filter.Days)
	items, total, err := s.repo.UnsoldProducts(ctx, since, filter)
	if err != nil {
		return nil, fmt.Errorf("get unsold products: %w", err)
	}
	return &UnsoldReport{Since: since, Items: items, TotalCount: total}, nil
}

// SalesSummary reports sales over a period, the last year by default.
func (s *Service) SalesSummary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummary, error) {
	now := s.now()
	last := now
	if filter.To != nil {
		last = *filter.To
	}
	first := last.AddDate(-1, 0, 0)
	if filter.From != nil {
		first = *filter.From
	}
	if first.After(last) {
		return nil, apperror.NewValidation("from must not be after to").WithDetail("field", "from")
	}
	if filter.Top <= 0 {
		filter.Top = 20
	}
	if filter.Top > 100 {
		filter.Top = 100
	}

	summary := &SalesSummary{Period: DayPeriod(first, last)}
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if summary.SaleCount, summary.Revenue, err = s.repo.SalesTotals(ctx, summary.Period); err != nil {
			return fmt.Errorf("sales totals: %w", err)
		}
		if summary.Monthly, err = s.repo.MonthlySales(ctx, summary.Period); err != nil {
			return fmt.Errorf("monthly sales: %w", err)
		}
		if summary.TopProducts, err = s.repo.TopProducts(ctx, summary.Period, filter.Top); err != nil {
			return fmt.Errorf("top products: %w", err)
		}
		if summary.ByBrand, err = s.repo.SalesByBrand(ctx, summary.Period); err != nil {
			return fmt.Errorf("sales by brand: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Profit reports realised profit month by month for a calendar year, the
// current one by default, and ranks products by profit.
func (s *Service) Profit(ctx context.Context, filter ProfitFilter) (*ProfitReport, error) {
	if filter.Year == 0 {
		filter.Year = s.now().UTC().Year()
	}
	if filter.Year < 1900 || filter.Year > 9999 {
		return nil, apperror.NewValidation("year is out of range").WithDetail("field", "year")
	}
	if filter.Top <= 0 {
		filter.Top = 20
	}
	if filter.Top > 100 {
		filter.Top = 100
	}

	start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	report := &ProfitReport{
		Year:    filter.Year,
		Period:  Period{From: start, To: start.AddDate(1, 0, 0)},
		Monthly: make([]MonthlyProfit, 12),
		Revenue: types.Zero(),
		COGS:    types.Zero(),
	}
	for i := range report.Monthly {
		report.Monthly[i] = MonthlyProfit{
			Month:   start.AddDate(0, i, 0),
			Revenue: types.Zero(),
			COGS:    types.Zero(),
		}
	}

	rows, err := s.repo.ProfitRows(ctx, report.Period)
	if err != nil {
		return nil, fmt.Errorf("get profit rows: %w", err)
	}

	byProduct := make(map[id.ID]*ProductProfit)
	for _, r := range rows {
		m := &report.Monthly[r.Month.UTC().Month()-1]
		m.Revenue = m.Revenue.Add(r.Revenue)
		m.COGS = m.COGS.Add(r.COGS)

		p, ok := byProduct[r.ProductID]
		if !ok {
			p = &ProductProfit{
				ProductID:     r.ProductID,
				Name:          r.Name,
				ArticleNumber: r.ArticleNumber,
				BrandName:     r.BrandName,
				Revenue:       types.Zero(),
				COGS:          types.Zero(),
			}
			byProduct[r.ProductID] = p
		}
		p.QuantitySold += r.QuantitySold
		p.Revenue = p.Revenue.Add(r.Revenue)
		p.COGS = p.COGS.Add(r.COGS)
	}

	for i := range report.Monthly {
		m := &report.Monthly[i]
		m.Profit = m.Revenue.Sub(m.COGS)
		m.Margin = MarginPercent(m.Profit, m.Revenue)
		report.Revenue = report.Revenue.Add(m.Revenue)
		report.COGS = report.COGS.Add(m.COGS)
	}
	report.Profit = report.Revenue.Sub(report.COGS)
	report.Margin = MarginPercent(report.Profit, report.Revenue)

	report.TopProducts = make([]ProductProfit, 0, len(byProduct))
	for _, p := range byProduct {
		p.Profit = p.Revenue.Sub(p.COGS)
		p.Margin = MarginPercent(p.Profit, p.Revenue)
		report.TopProducts = append(report.TopProducts, *p)
	}
	slices.SortFunc(report.TopProducts, func(a, b ProductProfit) int {
		return cmp.Or(b.Profit.Cmp(a.Profit), id.Compare(a.ProductID, b.ProductID))
	})
	if len(report.TopProducts) > filter.Top {
		report.TopProducts = report.TopProducts[:filter.Top]
	}
	return report, nil
}

// SaleItems collects the sale item rows for export. Both bounds or neither
// must be given.
func (s *Service) SaleItems(ctx context.Context, from, to *time.Time) (*SaleItemExport, error) {
	if (from == nil) != (to == nil) {
		return nil, apperror.NewValidation("from and to must be given together")
	}

	out := &SaleItemExport{Total: types.Zero()}
	if from != nil {
		if from.After(*to) {
			return nil, apperror.NewValidation("from must not be after to").WithDetail("field", "from")
		}
		p := DayPeriod(*from, *to)
		out.Period = &p
	}

	rows, err := s.repo.SaleItemRows(ctx, out.Period)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	out.Rows = rows
	for _, r := range rows {
		out.Total = out.Total.Add(r.Total())
	}
	return out, nil
}
