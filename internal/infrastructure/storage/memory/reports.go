package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/reports"
	"autoparts/internal/domain/sales"
)

// ReportRepo implements reports.Repository by scanning the tables.
type ReportRepo struct {
	store *Store
}

// NewReportRepo creates the report repository.
func NewReportRepo(s *Store) *ReportRepo {
	return &ReportRepo{store: s}
}

func (r *ReportRepo) InventoryByWarehouse(ctx context.Context, warehouseID *id.ID) ([]reports.WarehouseInventory, error) {
	var out []reports.WarehouseInventory
	err := r.store.read(ctx, func() error {
		out = make([]reports.WarehouseInventory, 0, len(r.store.warehouses))
		for _, w := range r.store.warehouses {
			if warehouseID != nil && w.ID != *warehouseID {
				continue
			}
			row := reports.WarehouseInventory{
				WarehouseID:       w.ID,
				WarehouseName:     w.Name,
				TotalCostValue:    types.Zero(),
				TotalSellingValue: types.Zero(),
			}
			for _, p := range r.store.products {
				if p.WarehouseID != w.ID {
					continue
				}
				row.ProductCount++
				row.TotalQuantity += p.Quantity
				row.TotalCostValue = row.TotalCostValue.Add(priceOrZero(p.CostPrice, p.Quantity))
				row.TotalSellingValue = row.TotalSellingValue.Add(priceOrZero(p.SellingPrice, p.Quantity))
			}
			out = append(out, row)
		}
		slices.SortFunc(out, func(a, b reports.WarehouseInventory) int {
			return cmp.Or(strings.Compare(a.WarehouseName, b.WarehouseName), id.Compare(a.WarehouseID, b.WarehouseID))
		})
		return nil
	})
	return out, err
}

func priceOrZero(price *types.Money, qty int64) types.Money {
	if price == nil {
		return types.Zero()
	}
	return types.LineTotal(qty, *price)
}

func (r *ReportRepo) UnsoldProducts(ctx context.Context, since time.Time, filter reports.UnsoldFilter) ([]reports.UnsoldProduct, int64, error) {
	var (
		out   []reports.UnsoldProduct
		total int64
	)
	err := r.store.read(ctx, func() error {
		sold := make(map[id.ID]bool)
		for _, it := range r.store.saleItems {
			if s, ok := r.store.sales[it.SaleID]; ok && !s.SaleDate.Before(since) {
				sold[it.ProductID] = true
			}
		}

		all := make([]reports.UnsoldProduct, 0)
		for _, p := range r.store.products {
			if sold[p.ID] || (filter.WarehouseID != nil && p.WarehouseID != *filter.WarehouseID) {
				continue
			}
			all = append(all, reports.UnsoldProduct{
				ProductID:     p.ID,
				Name:          p.Name,
				ArticleNumber: p.ArticleNumber,
				WarehouseName: r.store.warehouses[p.WarehouseID].Name,
				BrandName:     r.store.brands[p.BrandID].Name,
				Quantity:      p.Quantity,
				CostPrice:     p.CostPrice,
			})
		}
		slices.SortFunc(all, func(a, b reports.UnsoldProduct) int {
			return cmp.Or(strings.Compare(a.Name, b.Name), id.Compare(a.ProductID, b.ProductID))
		})
		p := page(all, filter.Limit, filter.Offset)
		out, total = p.Items, p.TotalCount
		return nil
	})
	return out, total, err
}

// soldItems calls fn for each item of a sale inside period.
func (r *ReportRepo) soldItems(period reports.Period, fn func(s sales.Sale, it sales.SaleItem)) {
	for _, it := range r.store.saleItems {
		s, ok := r.store.sales[it.SaleID]
		if !ok || s.SaleDate.Before(period.From) || !s.SaleDate.Before(period.To) {
			continue
		}
		fn(s, it)
	}
}

func inPeriod(t time.Time, p reports.Period) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

func (r *ReportRepo) SalesTotals(ctx context.Context, period reports.Period) (int64, types.Money, error) {
	var (
		count   int64
		revenue = types.Zero()
	)
	err := r.store.read(ctx, func() error {
		for _, s := range r.store.sales {
			if inPeriod(s.SaleDate, period) {
				count++
			}
		}
		r.soldItems(period, func(_ sales.Sale, it sales.SaleItem) {
			revenue = revenue.Add(it.TotalCost())
		})
		return nil
	})
	return count, revenue, err
}

func (r *ReportRepo) MonthlySales(ctx context.Context, period reports.Period) ([]reports.MonthlySales, error) {
	var out []reports.MonthlySales
	err := r.store.read(ctx, func() error {
		byMonth := make(map[time.Time]*reports.MonthlySales)
		month := func(t time.Time) *reports.MonthlySales {
			key := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
			m, ok := byMonth[key]
			if !ok {
				m = &reports.MonthlySales{Month: key, Revenue: types.Zero()}
				byMonth[key] = m
			}
			return m
		}
		for _, s := range r.store.sales {
			if inPeriod(s.SaleDate, period) {
				month(s.SaleDate).SaleCount++
			}
		}
		r.soldItems(period, func(s sales.Sale, it sales.SaleItem) {
			m := month(s.SaleDate)
			m.Revenue = m.Revenue.Add(it.TotalCost())
		})

		out = make([]reports.MonthlySales, 0, len(byMonth))
		for _, m := range byMonth {
			out = append(out, *m)
		}
		slices.SortFunc(out, func(a, b reports.MonthlySales) int { return a.Month.Compare(b.Month) })
		return nil
	})
	return out, err
}

func (r *ReportRepo) TopProducts(ctx context.Context, period reports.Period, limit int) ([]reports.ProductSales, error) {
	var out []reports.ProductSales
	err := r.store.read(ctx, func() error {
		byProduct := make(map[id.ID]*reports.ProductSales)
		r.soldItems(period, func(_ sales.Sale, it sales.SaleItem) {
			ps, ok := byProduct[it.ProductID]
			if !ok {
				p := r.store.products[it.ProductID]
				ps = &reports.ProductSales{
					ProductID:     p.ID,
					Name:          p.Name,
					ArticleNumber: p.ArticleNumber,
					BrandName:     r.store.brands[p.BrandID].Name,
					Revenue:       types.Zero(),
				}
				byProduct[it.ProductID] = ps
			}
			ps.QuantitySold += it.Quantity
			ps.Revenue = ps.Revenue.Add(it.TotalCost())
		})

		out = make([]reports.ProductSales, 0, len(byProduct))
		for _, ps := range byProduct {
			out = append(out, *ps)
		}
		slices.SortFunc(out, func(a, b reports.ProductSales) int {
			return cmp.Or(cmp.Compare(b.QuantitySold, a.QuantitySold), id.Compare(a.ProductID, b.ProductID))
		})
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r *ReportRepo) SalesByBrand(ctx context.Context, period reports.Period) ([]reports.BrandSales, error) {
	var out []reports.BrandSales
	err := r.store.read(ctx, func() error {
		byBrand := make(map[id.ID]*reports.BrandSales)
		r.soldItems(period, func(_ sales.Sale, it sales.SaleItem) {
			p := r.store.products[it.ProductID]
			bs, ok := byBrand[p.BrandID]
			if !ok {
				bs = &reports.BrandSales{
					BrandID:   p.BrandID,
					BrandName: r.store.brands[p.BrandID].Name,
					Revenue:   types.Zero(),
				}
				byBrand[p.BrandID] = bs
			}
			bs.QuantitySold += it.Quantity
			bs.Revenue = bs.Revenue.Add(it.TotalCost())
		})

		out = make([]reports.BrandSales, 0, len(byBrand))
		for _, bs := range byBrand {
			out = append(out, *bs)
		}
		slices.SortFunc(out, func(a, b reports.BrandSales) int {
			return cmp.Or(b.Revenue.Cmp(a.Revenue), id.Compare(a.BrandID, b.BrandID))
		})
		return nil
	})
	return out, err
}

func (r *ReportRepo) ProfitRows(ctx context.Context, period reports.Period) ([]reports.ProfitRow, error) {
	type key struct {
		month     time.Time
		productID id.ID
	}
	var out []reports.ProfitRow
	err := r.store.read(ctx, func() error {
		rows := make(map[key]*reports.ProfitRow)
		r.soldItems(period, func(s sales.Sale, it sales.SaleItem) {
			d := s.SaleDate.UTC()
			k := key{month: time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC), productID: it.ProductID}
			row, ok := rows[k]
			if !ok {
				p := r.store.products[it.ProductID]
				row = &reports.ProfitRow{
					Month:         k.month,
					ProductID:     p.ID,
					Name:          p.Name,
					ArticleNumber: p.ArticleNumber,
					BrandName:     r.store.brands[p.BrandID].Name,
					Revenue:       types.Zero(),
					COGS:          types.Zero(),
				}
				rows[k] = row
			}
			row.QuantitySold += it.Quantity
			row.Revenue = row.Revenue.Add(it.TotalCost())
			row.COGS = row.COGS.Add(priceOrZero(r.store.products[it.ProductID].CostPrice, it.Quantity))
		})

		out = make([]reports.ProfitRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, *row)
		}
		slices.SortFunc(out, func(a, b reports.ProfitRow) int {
			return cmp.Or(a.Month.Compare(b.Month), id.Compare(a.ProductID, b.ProductID))
		})
		return nil
	})
	return out, err
}

func (r *ReportRepo) SaleItemRows(ctx context.Context, period *reports.Period) ([]reports.SaleItemRow, error) {
	out := make([]reports.SaleItemRow, 0)
	err := r.store.read(ctx, func() error {
		for _, it := range r.store.saleItems {
			s, ok := r.store.sales[it.SaleID]
			if !ok || (period != nil && !inPeriod(s.SaleDate, *period)) {
				continue
			}
			p := r.store.products[it.ProductID]
			out = append(out, reports.SaleItemRow{
				SaleID:        s.ID,
				SaleDate:      s.SaleDate,
				ClientName:    r.store.clients[s.ClientID].FullName,
				ProductName:   p.Name,
				ArticleNumber: p.ArticleNumber,
				Quantity:      it.Quantity,
				SalePrice:     it.SalePrice,
			})
		}
		return nil
	})
	slices.SortFunc(out, func(a, b reports.SaleItemRow) int {
		return cmp.Or(a.SaleDate.Compare(b.SaleDate), id.Compare(a.SaleID, b.SaleID))
	})
	return out, err
}

var _ reports.Repository = (*ReportRepo)(nil)
