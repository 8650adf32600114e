package sales_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/adjustment"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/sales"
	"autoparts/internal/infrastructure/storage/memory"
)

type fixture struct {
	sales    *sales.SaleService
	payments *sales.PaymentService
	products *memory.ProductRepo
	clients  *memory.ClientRepo
	journal  *adjustment.Journal
	client   *client.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	txm := memory.NewTxManager(store)

	f := &fixture{
		products: memory.NewProductRepo(store),
		clients:  memory.NewClientRepo(store),
		journal:  adjustment.NewJournal(memory.NewAdjustmentStore(store)),
		client:   client.NewClient("Ivan Petrov", "+7 700 000 0000"),
	}
	require.NoError(t, client.NewService(f.clients, txm).Create(context.Background(), f.client))

	f.sales = sales.NewSaleService(memory.NewSaleRepo(store), f.products, f.clients, txm, f.journal)
	f.payments = sales.NewPaymentService(memory.NewPaymentRepo(store), f.clients, txm, f.journal)
	return f
}

// stocked adds a product holding qty units.
func (f *fixture) stocked(t *testing.T, name string, qty int64) *inventory.Product {
	t.Helper()
	ctx := context.Background()

	p, err := f.products.Ensure(ctx, inventory.NewProduct(inventory.Identity{
		WarehouseID: id.New(),
		BrandID:     id.New(),
		CountryID:   id.New(),
		Name:        name,
	}, types.MoneyPtr(types.MustMoney("5")), ""))
	require.NoError(t, err)
	p.Quantity = qty
	require.NoError(t, f.products.SaveStock(ctx, p))
	return p
}

func (f *fixture) quantity(t *testing.T, productID id.ID) int64 {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) balance(t *testing.T, clientID id.ID) types.Money {
	t.Helper()
	c, err := f.clients.GetByID(context.Background(), clientID)
	require.NoError(t, err)
	return c.Balance
}

func (f *fixture) newSale(t *testing.T) *sales.Sale {
	t.Helper()
	s := sales.NewSale(f.client.ID)
	require.NoError(t, f.sales.Create(context.Background(), s))
	return s
}

func TestSaleItem_TakesStockAndCharges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.stocked(t, "OIL FILTER", 6)
	s := f.newSale(t)

	item := sales.NewSaleItem(p.ID, 3, types.MustMoney("20.00"))
	require.NoError(t, f.sales.AddItem(ctx, s.ID, item))

	assert.EqualValues(t, 3, f.quantity(t, p.ID))
	assert.True(t, f.balance(t, f.client.ID).Equal(types.MustMoney("60")))

	events, err := f.journal.List(ctx, adjustment.Filter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestSaleItem_InsufficientStockWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.stocked(t, "OIL FILTER", 3)
	s := f.newSale(t)

	err := f.sales.AddItem(ctx, s.ID, sales.NewSaleItem(p.ID, 10, types.MustMoney("20")))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.EqualValues(t, 3, f.quantity(t, p.ID))
	assert.True(t, f.balance(t, f.client.ID).IsZero())

	got, err := f.sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestSaleItem_UpdateSettlesDifference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.stocked(t, "OIL FILTER", 10)
	s := f.newSale(t)

	item := sales.NewSaleItem(p.ID, 3, types.MustMoney("20"))
	require.NoError(t, f.sales.AddItem(ctx, s.ID, item))

	edit := *item
	edit.Quantity = 5
	edit.SalePrice = types.MustMoney("18")
	require.NoError(t, f.sales.UpdateItem(ctx, s.ID, &edit))

	assert.EqualValues(t, 5, f.quantity(t, p.ID))
	assert.True(t, f.balance(t, f.client.ID).Equal(types.MustMoney("90")))

	// the increase is checked against what is left, not the whole request
	edit.Quantity = 11
	err := f.sales.UpdateItem(ctx, s.ID, &edit)
	assert.True(t, apperror.IsInsufficientStock(err))

	edit.Quantity = 10
	require.NoError(t, f.sales.UpdateItem(ctx, s.ID, &edit))
	assert.EqualValues(t, 0, f.quantity(t, p.ID))
}

func TestSaleItem_SwitchProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.stocked(t, "OIL FILTER", 4)
	second := f.stocked(t, "AIR FILTER", 4)
	s := f.newSale(t)

	item := sales.NewSaleItem(first.ID, 2, types.MustMoney("10"))
	require.NoError(t, f.sales.AddItem(ctx, s.ID, item))

	edit := *item
	edit.ProductID = second.ID
	require.NoError(t, f.sales.UpdateItem(ctx, s.ID, &edit))

	assert.EqualValues(t, 4, f.quantity(t, first.ID))
	assert.EqualValues(t, 2, f.quantity(t, second.ID))
	assert.True(t, f.balance(t, f.client.ID).Equal(types.MustMoney("20")))
}

func TestSaleItem_DeleteRestores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.stocked(t, "OIL FILTER", 6)
	s := f.newSale(t)

	item := sales.NewSaleItem(p.ID, 3, types.MustMoney("20"))
	require.NoError(t, f.sales.AddItem(ctx, s.ID, item))
	require.NoError(t, f.sales.DeleteItem(ctx, s.ID, item.ID))

	assert.EqualValues(t, 6, f.quantity(t, p.ID))
	assert.True(t, f.balance(t, f.client.ID).IsZero())

	require.NoError(t, f.sales.Delete(ctx, s.ID))
}

func TestSale_CreateWithItemsIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plenty := f.stocked(t, "OIL FILTER", 10)
	scarce := f.stocked(t, "AIR FILTER", 1)

	s := sales.NewSale(f.client.ID)
	s.Items = []sales.SaleItem{
		*sales.NewSaleItem(plenty.ID, 2, types.MustMoney("5")),
		*sales.NewSaleItem(scarce.ID, 2, types.MustMoney("5")),
	}
	err := f.sales.Create(ctx, s)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.EqualValues(t, 10, f.quantity(t, plenty.ID))
	assert.True(t, f.balance(t, f.client.ID).IsZero())
	_, err = f.sales.GetByID(ctx, s.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSale_DeleteWithItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.stocked(t, "OIL FILTER", 6)
	s := f.newSale(t)
	require.NoError(t, f.sales.AddItem(ctx, s.ID, sales.NewSaleItem(p.ID, 1, types.MustMoney("1"))))

	err := f.sales.Delete(ctx, s.ID)
	assert.True(t, apperror.IsReferenceIntegrity(err))
}

func TestSale_ReassignClientMovesBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.stocked(t, "OIL FILTER", 6)
	s := f.newSale(t)
	require.NoError(t, f.sales.AddItem(ctx, s.ID, sales.NewSaleItem(p.ID, 2, types.MustMoney("15"))))

	other := client.NewClient("Anna", "+7 701")
	require.NoError(t, f.clients.Create(ctx, other))

	got, err := f.sales.ReassignClient(ctx, s.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ClientID)

	assert.True(t, f.balance(t, f.client.ID).IsZero())
	assert.True(t, f.balance(t, other.ID).Equal(types.MustMoney("30")))
	assert.EqualValues(t, 4, f.quantity(t, p.ID))
}

func TestPayment_CreateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.clients.SetBalance(ctx, f.client.ID, types.MustMoney("60")))

	p := sales.NewPayment(f.client.ID, types.MustMoney("60.00"))
	require.NoError(t, f.payments.Create(ctx, p))
	assert.True(t, f.balance(t, f.client.ID).IsZero())

	require.NoError(t, f.payments.Delete(ctx, p.ID))
	assert.True(t, f.balance(t, f.client.ID).Equal(types.MustMoney("60")))

	_, err := f.payments.GetByID(ctx, p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestPayment_Overpay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.payments.Create(ctx, sales.NewPayment(f.client.ID, types.MustMoney("25"))))
	assert.True(t, f.balance(t, f.client.ID).Equal(types.MustMoney("-25")))
}

func TestPayment_UpdateRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := sales.NewPayment(f.client.ID, types.MustMoney("10"))
	require.NoError(t, f.payments.Create(ctx, p))

	err := f.payments.Update(ctx, p.ID)
	assert.True(t, apperror.IsImmutableRecord(err))

	err = f.payments.Update(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestPayment_RejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	err := f.payments.Create(context.Background(), sales.NewPayment(f.client.ID, types.Zero()))
	assert.Equal(t, apperror.CodeValidation, appCode(err))
}

func TestSaleItem_RejectsFractionOfCent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.stocked(t, "OIL FILTER", 1000)
	s := f.newSale(t)

	err := f.sales.AddItem(ctx, s.ID, sales.NewSaleItem(p.ID, 1000, types.MustMoney("0.005")))
	assert.Equal(t, apperror.CodeValidation, appCode(err))
	assert.EqualValues(t, 1000, f.quantity(t, p.ID))
	assert.True(t, f.balance(t, f.client.ID).IsZero())
}

func TestPayment_RejectsFractionOfCent(t *testing.T) {
	f := newFixture(t)
	err := f.payments.Create(context.Background(), sales.NewPayment(f.client.ID, types.MustMoney("10.001")))
	assert.Equal(t, apperror.CodeValidation, appCode(err))
	assert.True(t, f.balance(t, f.client.ID).IsZero())
}

func TestSaleItem_ConcurrentBuyersNeverOversell(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.stocked(t, "OIL FILTER", 25)

	const buyers = 60
	orders := make([]*sales.Sale, buyers)
	for i := range orders {
		orders[i] = f.newSale(t)
	}

	var (
		wg       sync.WaitGroup
		sold     atomic.Int64
		rejected atomic.Int64
	)
	for _, s := range orders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.sales.AddItem(ctx, s.ID, newItem(p.ID, 1, "4.00"))
			switch {
			case err == nil:
				sold.Add(1)
			case apperror.IsInsufficientStock(err):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 25, sold.Load())
	assert.EqualValues(t, buyers-25, rejected.Load())
	assert.EqualValues(t, 0, f.quantity(t, p.ID))
	assert.True(t, f.balance(t, f.client.ID).Equal(types.MustMoney("100")))
}

func TestPayment_ConcurrentWithSales(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.stocked(t, "OIL FILTER", 20)
	s := f.newSale(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.sales.AddItem(ctx, s.ID, newItem(p.ID, 1, "7.50")))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, f.payments.Create(ctx, sales.NewPayment(f.client.ID, types.MustMoney("2.25"))))
		}()
	}
	wg.Wait()

	// 20 × 7.50 charged, 20 × 2.25 paid
	assert.True(t, f.balance(t, f.client.ID).Equal(types.MustMoney("105")))
	assert.EqualValues(t, 0, f.quantity(t, p.ID))
}

func newItem(productID id.ID, qty int64, price string) *sales.SaleItem {
	return sales.NewSaleItem(productID, qty, types.MustMoney(price))
}

func appCode(err error) string {
	if e, ok := apperror.AsAppError(err); ok {
		return e.Code
	}
	return ""
}
