package app_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/app"
	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/adjustment"
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/sales"
	v1 "autoparts/internal/infrastructure/http/v1"
	"autoparts/internal/infrastructure/storage/memory"
)

var partNames = []string{"oil filter", "Air  Filter", "brake pad"}

// ledgerModel mirrors what the services should have stored after each
// successful write.
type ledgerModel struct {
	lines    map[id.ID]inventory.ArrivalLine
	items    map[id.ID]sales.SaleItem
	itemSale map[id.ID]id.ID
	saleOf   map[id.ID]id.ID // sale -> client
	payments map[id.ID]sales.Payment
}

type sequence struct {
	t   *testing.T
	ctx context.Context
	svc v1.Services
	rnd *rand.Rand

	arrival *inventory.Arrival
	brandID id.ID
	clients []id.ID
	sales   []id.ID
	model   ledgerModel
}

func newSequence(t *testing.T, seed uint64) *sequence {
	t.Helper()
	ctx := context.Background()
	svc := app.NewServices(app.MemoryRepositories(memory.NewStore()))

	wh := warehouse.NewWarehouse("Main")
	require.NoError(t, svc.Warehouses.Create(ctx, wh))
	c := country.NewCountry("Japan")
	require.NoError(t, svc.Countries.Create(ctx, c))
	b := brand.NewBrand("Denso")
	require.NoError(t, svc.Brands.Create(ctx, b))

	a := inventory.NewArrival(wh.ID, c.ID, time.Now())
	require.NoError(t, svc.Arrivals.Create(ctx, a))

	s := &sequence{
		t:       t,
		ctx:     ctx,
		svc:     svc,
		rnd:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		arrival: a,
		brandID: b.ID,
		model: ledgerModel{
			lines:    map[id.ID]inventory.ArrivalLine{},
			items:    map[id.ID]sales.SaleItem{},
			itemSale: map[id.ID]id.ID{},
			saleOf:   map[id.ID]id.ID{},
			payments: map[id.ID]sales.Payment{},
		},
	}
	for i := 0; i < 2; i++ {
		cl := client.NewClient(fmt.Sprintf("Client %d", i), "+7 700")
		require.NoError(t, svc.Clients.Create(ctx, cl))
		sale := sales.NewSale(cl.ID)
		require.NoError(t, svc.Sales.Create(ctx, sale))
		s.clients = append(s.clients, cl.ID)
		s.sales = append(s.sales, sale.ID)
		s.model.saleOf[sale.ID] = cl.ID
	}
	return s
}

func (s *sequence) price() types.Money {
	return types.MustMoney(fmt.Sprintf("%d.%02d", 1+s.rnd.IntN(40), s.rnd.IntN(100)))
}

func pick[K comparable, V any](rnd *rand.Rand, m map[K]V) (K, V, bool) {
	var zeroK K
	var zeroV V
	if len(m) == 0 {
		return zeroK, zeroV, false
	}
	n := rnd.IntN(len(m))
	for k, v := range m {
		if n == 0 {
			return k, v, true
		}
		n--
	}
	return zeroK, zeroV, false
}

func (s *sequence) products() []*inventory.Product {
	res, err := s.svc.Products.List(s.ctx, inventory.ProductFilter{})
	require.NoError(s.t, err)
	return res.Items
}

// step performs one random write and records it in the model when it succeeds.
func (s *sequence) step() {
	s.stepOp(s.rnd.IntN(8))
}

// stepSalesOnly performs a random sale item or payment write.
func (s *sequence) stepSalesOnly() {
	s.stepOp(4 + s.rnd.IntN(4))
}

func (s *sequence) stepOp(op int) {
	t, ctx, rnd := s.t, s.ctx, s.rnd

	switch op {
	case 0, 1:
		line := inventory.NewArrivalLine(s.brandID, partNames[rnd.IntN(len(partNames))], int64(rnd.IntN(12)), s.price())
		require.NoError(t, s.svc.Arrivals.AddLine(ctx, s.arrival.ID, line))
		s.model.lines[line.ID] = *line

	case 2:
		lineID, line, ok := pick(rnd, s.model.lines)
		if !ok {
			return
		}
		edit := line
		edit.Quantity = int64(rnd.IntN(12))
		if rnd.IntN(3) == 0 {
			edit.Name = partNames[rnd.IntN(len(partNames))]
		}
		require.NoError(t, s.svc.Arrivals.UpdateLine(ctx, s.arrival.ID, &edit))
		s.model.lines[lineID] = edit

	case 3:
		lineID, _, ok := pick(rnd, s.model.lines)
		if !ok {
			return
		}
		require.NoError(t, s.svc.Arrivals.DeleteLine(ctx, s.arrival.ID, lineID))
		delete(s.model.lines, lineID)

	case 4:
		stock := s.products()
		if len(stock) == 0 {
			return
		}
		p := stock[rnd.IntN(len(stock))]
		saleID := s.sales[rnd.IntN(len(s.sales))]
		item := sales.NewSaleItem(p.ID, int64(1+rnd.IntN(5)), s.price())
		err := s.svc.Sales.AddItem(ctx, saleID, item)
		if apperror.IsInsufficientStock(err) {
			return
		}
		require.NoError(t, err)
		s.model.items[item.ID] = *item
		s.model.itemSale[item.ID] = saleID

	case 5:
		itemID, item, ok := pick(rnd, s.model.items)
		if !ok {
			return
		}
		edit := item
		edit.Quantity = int64(rnd.IntN(6))
		edit.SalePrice = s.price()
		err := s.svc.Sales.UpdateItem(ctx, s.model.itemSale[itemID], &edit)
		if apperror.IsInsufficientStock(err) {
			return
		}
		require.NoError(t, err)
		s.model.items[itemID] = edit

	case 6:
		itemID, _, ok := pick(rnd, s.model.items)
		if !ok {
			return
		}
		require.NoError(t, s.svc.Sales.DeleteItem(ctx, s.model.itemSale[itemID], itemID))
		delete(s.model.items, itemID)
		delete(s.model.itemSale, itemID)

	case 7:
		if paymentID, _, ok := pick(rnd, s.model.payments); ok && rnd.IntN(3) == 0 {
			require.NoError(t, s.svc.Payments.Delete(ctx, paymentID))
			delete(s.model.payments, paymentID)
			return
		}
		p := sales.NewPayment(s.clients[rnd.IntN(len(s.clients))], s.price())
		require.NoError(t, s.svc.Payments.Create(ctx, p))
		s.model.payments[p.ID] = *p
	}
}

func (s *sequence) clamped() bool {
	events, err := s.svc.Journal.List(s.ctx, adjustment.Filter{ClampedOnly: true})
	require.NoError(s.t, err)
	return len(events) > 0
}

// check compares stored stock and balances with the model.
func (s *sequence) check(step int) {
	t := s.t

	var onHand int64
	for _, p := range s.products() {
		require.GreaterOrEqual(t, p.Quantity, int64(0), "step %d: product %s", step, p.Name)
		onHand += p.Quantity
	}

	if !s.clamped() {
		var arrived, sold int64
		for _, l := range s.model.lines {
			arrived += l.Quantity
		}
		for _, it := range s.model.items {
			sold += it.Quantity
		}
		require.Equal(t, arrived-sold, onHand, "step %d: stock not conserved", step)
	}

	want := make(map[id.ID]types.Money, len(s.clients))
	for _, c := range s.clients {
		want[c] = types.Zero()
	}
	for itemID, it := range s.model.items {
		c := s.model.saleOf[s.model.itemSale[itemID]]
		want[c] = want[c].Add(it.TotalCost())
	}
	for _, p := range s.model.payments {
		want[p.ClientID] = want[p.ClientID].Sub(p.Amount)
	}
	for _, c := range s.clients {
		got, err := s.svc.Clients.GetByID(s.ctx, c)
		require.NoError(t, err)
		require.True(t, want[c].Equal(got.Balance),
			"step %d: client %s balance %s, want %s", step, c, got.Balance, want[c])
	}
}

func TestLedger_RandomSequencesKeepStockAndBalances(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42, 2024, 90210} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			s := newSequence(t, seed)
			for i := 0; i < 300; i++ {
				s.step()
				s.check(i)
			}
		})
	}
}

func TestLedger_SequenceWithoutShrinkingArrivalsNeverClamps(t *testing.T) {
	s := newSequence(t, 3)
	for i := 0; i < 200; i++ {
		// only additions and sale-side edits
		switch i % 4 {
		case 0:
			line := inventory.NewArrivalLine(s.brandID, partNames[i%len(partNames)], 5, types.MustMoney("3.00"))
			require.NoError(t, s.svc.Arrivals.AddLine(s.ctx, s.arrival.ID, line))
			s.model.lines[line.ID] = *line
		default:
			s.stepSalesOnly()
		}
		s.check(i)
	}
	assert.False(t, s.clamped())
}
