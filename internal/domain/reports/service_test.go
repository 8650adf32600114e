package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/adjustment"
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/reports"
	"autoparts/internal/domain/sales"
	"autoparts/internal/infrastructure/storage/memory"
)

// seeded stocks two products in one warehouse, leaves a second warehouse
// empty and sells three units of the first product.
func seeded(t *testing.T) (*reports.Service, *inventory.Product, *inventory.Product) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	journal := adjustment.NewJournal(memory.NewAdjustmentStore(store))
	products := memory.NewProductRepo(store)
	clients := memory.NewClientRepo(store)

	warehouses := warehouse.NewService(memory.NewWarehouseRepo(store), txm)
	countries := country.NewService(memory.NewCountryRepo(store), txm)
	brands := brand.NewService(memory.NewBrandRepo(store), txm)

	main, spare := warehouse.NewWarehouse("Main"), warehouse.NewWarehouse("Spare")
	jp := country.NewCountry("Japan")
	denso := brand.NewBrand("Denso")
	buyer := client.NewClient("Ivan", "+7 700")
	require.NoError(t, warehouses.Create(ctx, main))
	require.NoError(t, warehouses.Create(ctx, spare))
	require.NoError(t, countries.Create(ctx, jp))
	require.NoError(t, brands.Create(ctx, denso))
	require.NoError(t, clients.Create(ctx, buyer))

	arrivals := inventory.NewArrivalService(memory.NewArrivalRepo(store), products,
		inventory.ArrivalCatalogs{Warehouses: warehouses, Countries: countries, Brands: brands}, txm, journal)
	a := inventory.NewArrival(main.ID, jp.ID, time.Now())
	hot := inventory.NewArrivalLine(denso.ID, "oil filter", 10, types.MustMoney("5"))
	cold := inventory.NewArrivalLine(denso.ID, "air filter", 2, types.MustMoney("8"))
	a.Lines = []inventory.ArrivalLine{*hot, *cold}
	require.NoError(t, arrivals.Create(ctx, a))

	sold, err := products.FindByIdentity(ctx, a.Lines[0].Identity(a))
	require.NoError(t, err)
	unsold, err := products.FindByIdentity(ctx, a.Lines[1].Identity(a))
	require.NoError(t, err)

	_, err = inventory.NewProductService(products, txm).UpdateDetails(ctx, sold.ID, inventory.DetailsPatch{
		SellingPrice: types.MoneyPtr(types.MustMoney("9")),
		Version:      sold.Version,
	})
	require.NoError(t, err)

	saleSvc := sales.NewSaleService(memory.NewSaleRepo(store), products, clients, txm, journal)
	s := sales.NewSale(buyer.ID)
	s.Items = []sales.SaleItem{*sales.NewSaleItem(sold.ID, 3, types.MustMoney("9"))}
	require.NoError(t, saleSvc.Create(ctx, s))

	return reports.NewService(memory.NewReportRepo(store), txm), sold, unsold
}

func TestService_Inventory(t *testing.T) {
	svc, _, _ := seeded(t)

	report, err := svc.Inventory(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, report.Warehouses, 2)

	main := report.Warehouses[0]
	assert.Equal(t, "Main", main.WarehouseName)
	assert.EqualValues(t, 2, main.ProductCount)
	assert.EqualValues(t, 9, main.TotalQuantity)
	// 7×5 + 2×8
	assert.True(t, main.TotalCostValue.Equal(types.MustMoney("51")))
	// 7×9, the air filter has no selling price
	assert.True(t, main.TotalSellingValue.Equal(types.MustMoney("63")))
	assert.True(t, main.PotentialProfit.Equal(types.MustMoney("12")))

	assert.EqualValues(t, 0, report.Warehouses[1].ProductCount)
	assert.True(t, report.PotentialProfit.Equal(types.MustMoney("12")))
}

func TestService_Unsold(t *testing.T) {
	svc, _, unsold := seeded(t)

	report, err := svc.Unsold(context.Background(), reports.UnsoldFilter{})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, unsold.ID, report.Items[0].ProductID)
	assert.Equal(t, "Denso", report.Items[0].BrandName)

	_, err = svc.Unsold(context.Background(), reports.UnsoldFilter{Days: 5000})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestService_SalesSummary(t *testing.T) {
	svc, sold, _ := seeded(t)

	summary, err := svc.SalesSummary(context.Background(), reports.SalesSummaryFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.SaleCount)
	assert.True(t, summary.Revenue.Equal(types.MustMoney("27")))
	require.Len(t, summary.Monthly, 1)
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, sold.ID, summary.TopProducts[0].ProductID)
	assert.EqualValues(t, 3, summary.TopProducts[0].QuantitySold)
	require.Len(t, summary.ByBrand, 1)
	assert.Equal(t, "Denso", summary.ByBrand[0].BrandName)

	past := time.Now().AddDate(-2, 0, 0)
	summary, err = svc.SalesSummary(context.Background(), reports.SalesSummaryFilter{To: &past})
	require.NoError(t, err)
	assert.Zero(t, summary.SaleCount)
	assert.Empty(t, summary.TopProducts)
}

func TestService_SaleItems(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := seeded(t)

	all, err := svc.SaleItems(ctx, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, all.Period)
	require.Len(t, all.Rows, 1)
	assert.Equal(t, "Ivan", all.Rows[0].ClientName)
	assert.True(t, all.Total.Equal(types.MustMoney("27")))

	today := time.Now()
	byDay, err := svc.SaleItems(ctx, &today, &today)
	require.NoError(t, err)
	require.NotNil(t, byDay.Period)
	assert.Len(t, byDay.Rows, 1)

	_, err = svc.SaleItems(ctx, &today, nil)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestDayPeriod(t *testing.T) {
	first := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	last := time.Date(2024, 3, 31, 8, 0, 0, 0, time.UTC)

	p := reports.DayPeriod(first, last)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.From)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), p.To)
}

func TestService_Profit(t *testing.T) {
	ctx := context.Background()
	svc, sold, _ := seeded(t)
	now := time.Now().UTC()

	report, err := svc.Profit(ctx, reports.ProfitFilter{})
	require.NoError(t, err)
	assert.Equal(t, now.Year(), report.Year)
	require.Len(t, report.Monthly, 12)

	// 3 × 9 sold at a cost of 3 × 5
	assert.True(t, report.Revenue.Equal(types.MustMoney("27")))
	assert.True(t, report.COGS.Equal(types.MustMoney("15")))
	assert.True(t, report.Profit.Equal(types.MustMoney("12")))
	assert.Equal(t, "44.44", report.Margin.StringFixed(2))

	month := report.Monthly[now.Month()-1]
	assert.Equal(t, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), month.Month)
	assert.True(t, month.Profit.Equal(types.MustMoney("12")))

	require.Len(t, report.TopProducts, 1)
	top := report.TopProducts[0]
	assert.Equal(t, sold.ID, top.ProductID)
	assert.EqualValues(t, 3, top.QuantitySold)
	assert.True(t, top.Profit.Equal(types.MustMoney("12")))

	empty, err := svc.Profit(ctx, reports.ProfitFilter{Year: now.Year() - 3})
	require.NoError(t, err)
	require.Len(t, empty.Monthly, 12)
	assert.True(t, empty.Revenue.IsZero())
	assert.True(t, empty.Margin.IsZero())
	assert.Empty(t, empty.TopProducts)

	_, err = svc.Profit(ctx, reports.ProfitFilter{Year: 12})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestMarginPercent(t *testing.T) {
	assert.Equal(t, "25.00", reports.MarginPercent(types.MustMoney("5"), types.MustMoney("20")).StringFixed(2))
	assert.Equal(t, "-50.00", reports.MarginPercent(types.MustMoney("-5"), types.MustMoney("10")).StringFixed(2))
	assert.True(t, reports.MarginPercent(types.MustMoney("5"), types.Zero()).IsZero())
}
