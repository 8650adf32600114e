package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/adjustment"
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/infrastructure/storage/memory"
)

// lockRecorder notes the order in which product rows are locked.
type lockRecorder struct {
	*memory.ProductRepo

	mu     sync.Mutex
	locked []id.ID
}

func (r *lockRecorder) GetForUpdate(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	r.mu.Lock()
	r.locked = append(r.locked, productID)
	r.mu.Unlock()
	return r.ProductRepo.GetForUpdate(ctx, productID)
}

func (r *lockRecorder) reset() {
	r.mu.Lock()
	r.locked = nil
	r.mu.Unlock()
}

type fixture struct {
	arrivals  *inventory.ArrivalService
	products  *lockRecorder
	journal   *adjustment.Journal
	warehouse *warehouse.Warehouse
	country   *country.Country
	brand     *brand.Brand
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	txm := memory.NewTxManager(store)

	warehouses := warehouse.NewService(memory.NewWarehouseRepo(store), txm)
	countries := country.NewService(memory.NewCountryRepo(store), txm)
	brands := brand.NewService(memory.NewBrandRepo(store), txm)

	f := &fixture{
		products:  &lockRecorder{ProductRepo: memory.NewProductRepo(store)},
		journal:   adjustment.NewJournal(memory.NewAdjustmentStore(store)),
		warehouse: warehouse.NewWarehouse("Main"),
		country:   country.NewCountry("Japan"),
		brand:     brand.NewBrand("Denso"),
	}
	require.NoError(t, warehouses.Create(ctx, f.warehouse))
	require.NoError(t, countries.Create(ctx, f.country))
	require.NoError(t, brands.Create(ctx, f.brand))

	f.arrivals = inventory.NewArrivalService(
		memory.NewArrivalRepo(store),
		f.products,
		inventory.ArrivalCatalogs{Warehouses: warehouses, Countries: countries, Brands: brands},
		txm,
		f.journal,
	)
	return f
}

func (f *fixture) newArrival(t *testing.T) *inventory.Arrival {
	t.Helper()
	a := inventory.NewArrival(f.warehouse.ID, f.country.ID, time.Now())
	require.NoError(t, f.arrivals.Create(context.Background(), a))
	return a
}

func (f *fixture) product(t *testing.T, a *inventory.Arrival, line *inventory.ArrivalLine) *inventory.Product {
	t.Helper()
	p, err := f.products.FindByIdentity(context.Background(), line.Identity(a))
	require.NoError(t, err)
	return p
}

func TestArrivalLine_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.newArrival(t)

	// new identity creates the product
	line := inventory.NewArrivalLine(f.brand.ID, "  oil   filter ", 10, types.MustMoney("5.00"))
	require.NoError(t, f.arrivals.AddLine(ctx, a.ID, line))
	assert.Equal(t, "OIL FILTER", line.Name)

	p := f.product(t, a, line)
	assert.EqualValues(t, 10, p.Quantity)
	require.NotNil(t, p.CostPrice)
	assert.True(t, p.CostPrice.Equal(types.MustMoney("5")))

	// shrinking the line withdraws the difference
	edit := *line
	edit.Quantity = 6
	require.NoError(t, f.arrivals.UpdateLine(ctx, a.ID, &edit))
	assert.EqualValues(t, 6, f.product(t, a, line).Quantity)

	// deleting the line floors at zero
	p = f.product(t, a, line)
	p.Quantity = 2
	require.NoError(t, f.products.SaveStock(ctx, p))
	require.NoError(t, f.arrivals.DeleteLine(ctx, a.ID, line.ID))
	assert.EqualValues(t, 0, f.product(t, a, line).Quantity)

	events, err := f.journal.List(ctx, adjustment.Filter{ClampedOnly: true})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, adjustment.ActionDelete, events[0].Action)
	assert.True(t, events[0].Delta.Equal(types.MustMoney("-6")))
}

func TestArrivalLine_SameIdentityAccumulates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.newArrival(t)

	first := inventory.NewArrivalLine(f.brand.ID, "spark plug", 4, types.MustMoney("3"))
	second := inventory.NewArrivalLine(f.brand.ID, "SPARK  PLUG", 6, types.MustMoney("3.50"))
	require.NoError(t, f.arrivals.AddLine(ctx, a.ID, first))
	require.NoError(t, f.arrivals.AddLine(ctx, a.ID, second))

	p := f.product(t, a, first)
	assert.EqualValues(t, 10, p.Quantity)
	assert.True(t, p.CostPrice.Equal(types.MustMoney("3.5")))

	res, err := f.products.List(ctx, inventory.ProductFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.TotalCount)
}

func TestArrivalLine_IdentityChangeMovesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.newArrival(t)

	line := inventory.NewArrivalLine(f.brand.ID, "oil filter", 5, types.MustMoney("2"))
	require.NoError(t, f.arrivals.AddLine(ctx, a.ID, line))
	oldIdentity := line.Identity(a)

	edit := *line
	edit.Name = "air filter"
	require.NoError(t, f.arrivals.UpdateLine(ctx, a.ID, &edit))

	old, err := f.products.FindByIdentity(ctx, oldIdentity)
	require.NoError(t, err)
	assert.EqualValues(t, 0, old.Quantity)
	assert.EqualValues(t, 5, f.product(t, a, &edit).Quantity)
}

func TestArrivalLine_ZeroQuantityCreatesProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.newArrival(t)

	line := inventory.NewArrivalLine(f.brand.ID, "belt", 0, types.Zero())
	require.NoError(t, f.arrivals.AddLine(ctx, a.ID, line))
	assert.EqualValues(t, 0, f.product(t, a, line).Quantity)

	require.NoError(t, f.arrivals.DeleteLine(ctx, a.ID, line.ID))
	got, err := f.arrivals.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestArrivalLine_RejectsUnknownBrand(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.newArrival(t)

	line := inventory.NewArrivalLine(id.New(), "belt", 1, types.MustMoney("1"))
	err := f.arrivals.AddLine(ctx, a.ID, line)
	assert.True(t, apperror.IsNotFound(err))

	res, err := f.products.List(ctx, inventory.ProductFilter{})
	require.NoError(t, err)
	assert.Zero(t, res.TotalCount)
}

func TestArrivalLine_WrongArrival(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.newArrival(t)
	other := f.newArrival(t)

	line := inventory.NewArrivalLine(f.brand.ID, "belt", 1, types.MustMoney("1"))
	require.NoError(t, f.arrivals.AddLine(ctx, a.ID, line))

	err := f.arrivals.DeleteLine(ctx, other.ID, line.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.EqualValues(t, 1, f.product(t, a, line).Quantity)
}

func TestArrival_CreateWithLines(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := inventory.NewArrival(f.warehouse.ID, f.country.ID, time.Now())
	a.Lines = []inventory.ArrivalLine{
		*inventory.NewArrivalLine(f.brand.ID, "brake pad", 4, types.MustMoney("12.50")),
		*inventory.NewArrivalLine(f.brand.ID, "brake disc", 2, types.MustMoney("40")),
	}
	require.NoError(t, f.arrivals.Create(ctx, a))

	got, err := f.arrivals.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.TotalAmount().Equal(types.MustMoney("130")))

	res, err := f.products.List(ctx, inventory.ProductFilter{InStockOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalCount)
}

func TestArrival_HeaderLockedOnceStocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.newArrival(t)

	require.NoError(t, f.arrivals.AddLine(ctx, a.ID,
		inventory.NewArrivalLine(f.brand.ID, "belt", 1, types.MustMoney("1"))))

	current, err := f.arrivals.GetByID(ctx, a.ID)
	require.NoError(t, err)

	edit := *current
	edit.CountryID = id.New()
	err = f.arrivals.Update(ctx, &edit)
	assert.True(t, apperror.HasCode(err, inventory.CodeArrivalHasLines))

	edit = *current
	edit.Comment = "late delivery"
	require.NoError(t, f.arrivals.Update(ctx, &edit))

	err = f.arrivals.Delete(ctx, a.ID)
	assert.True(t, apperror.IsReferenceIntegrity(err))
}

func TestArrivalLine_LocksProductsInIDOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.newArrival(t)

	// AIR FILTER is created first, so its id sorts before OIL FILTER's.
	air := inventory.NewArrivalLine(f.brand.ID, "air filter", 1, types.MustMoney("2"))
	require.NoError(t, f.arrivals.AddLine(ctx, a.ID, air))
	oil := inventory.NewArrivalLine(f.brand.ID, "oil filter", 5, types.MustMoney("2"))
	require.NoError(t, f.arrivals.AddLine(ctx, a.ID, oil))

	airProduct := f.product(t, a, air)
	oilProduct := f.product(t, a, oil)
	require.Negative(t, id.Compare(airProduct.ID, oilProduct.ID))

	// The plan withdraws from OIL FILTER before booking on AIR FILTER;
	// the locks must still follow id order.
	f.products.reset()
	edit := *oil
	edit.Name = "air filter"
	require.NoError(t, f.arrivals.UpdateLine(ctx, a.ID, &edit))

	assert.Equal(t, []id.ID{airProduct.ID, oilProduct.ID}, f.products.locked)
	assert.EqualValues(t, 6, f.product(t, a, air).Quantity)
	assert.EqualValues(t, 0, f.product(t, a, oil).Quantity)
}

func TestArrivalLine_ConcurrentWritersOnOneProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.newArrival(t)

	const writers = 40
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.arrivals.AddLine(ctx, a.ID, inventory.NewArrivalLine(f.brand.ID, "Oil  Filter ", 2, types.MustMoney("3")))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	res, err := f.products.List(ctx, inventory.ProductFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, res.TotalCount)
	assert.EqualValues(t, 2*writers, res.Items[0].Quantity)
}
