// Package memory provides an in-process implementation of every repository,
// used in development when no database is configured and as the test backend.
//
// A write transaction holds a store-wide lock for its whole duration and
// restores a snapshot of every table when it fails, so it gives the same
// all-or-nothing behaviour as a database transaction.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"autoparts/internal/core/id"
	"autoparts/internal/core/tx"
	"autoparts/internal/domain/adjustment"
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/currency"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/sales"
)

// Store holds all tables.
type Store struct {
	mu sync.RWMutex

	warehouses   map[id.ID]warehouse.Warehouse
	countries    map[id.ID]country.Country
	brands       map[id.ID]brand.Brand
	clients      map[id.ID]client.Client
	products     map[id.ID]inventory.Product
	identities   map[inventory.Identity]id.ID
	arrivals     map[id.ID]inventory.Arrival
	arrivalLines map[id.ID]inventory.ArrivalLine
	sales        map[id.ID]sales.Sale
	saleItems    map[id.ID]sales.SaleItem
	payments     map[id.ID]sales.Payment
	rates        map[id.ID]currency.Rate
	adjustments  []adjustment.Event
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		warehouses:   make(map[id.ID]warehouse.Warehouse),
		countries:    make(map[id.ID]country.Country),
		brands:       make(map[id.ID]brand.Brand),
		clients:      make(map[id.ID]client.Client),
		products:     make(map[id.ID]inventory.Product),
		identities:   make(map[inventory.Identity]id.ID),
		arrivals:     make(map[id.ID]inventory.Arrival),
		arrivalLines: make(map[id.ID]inventory.ArrivalLine),
		sales:        make(map[id.ID]sales.Sale),
		saleItems:    make(map[id.ID]sales.SaleItem),
		payments:     make(map[id.ID]sales.Payment),
		rates:        make(map[id.ID]currency.Rate),
	}
}

// snapshot copies every table and returns a function that puts them back.
// Rows are stored by value, so a shallow map copy is enough.
func (s *Store) snapshot() func() {
	var (
		warehouses   = maps.Clone(s.warehouses)
		countries    = maps.Clone(s.countries)
		brands       = maps.Clone(s.brands)
		clients      = maps.Clone(s.clients)
		products     = maps.Clone(s.products)
		identities   = maps.Clone(s.identities)
		arrivals     = maps.Clone(s.arrivals)
		arrivalLines = maps.Clone(s.arrivalLines)
		salesT       = maps.Clone(s.sales)
		saleItems    = maps.Clone(s.saleItems)
		payments     = maps.Clone(s.payments)
		rates        = maps.Clone(s.rates)
		adjustments  = slices.Clone(s.adjustments)
	)
	return func() {
		s.warehouses = warehouses
		s.countries = countries
		s.brands = brands
		s.clients = clients
		s.products = products
		s.identities = identities
		s.arrivals = arrivals
		s.arrivalLines = arrivalLines
		s.sales = salesT
		s.saleItems = saleItems
		s.payments = payments
		s.rates = rates
		s.adjustments = adjustments
	}
}

// Compile-time check that TxManager implements tx.ReadOnlyManager interface.
var _ tx.ReadOnlyManager = (*TxManager)(nil)

// TxManager runs transactions against a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager for store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// txKey is the context key for an active transaction.
type txKey struct{}

type txState struct {
	readOnly bool
}

func activeTx(ctx context.Context) *txState {
	if st, ok := ctx.Value(txKey{}).(*txState); ok {
		return st
	}
	return nil
}

// RunInTransaction executes fn holding the store lock. If fn fails every
// table is restored. Nested calls reuse the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if st := activeTx(ctx); st != nil {
		if st.readOnly {
			return errReadOnly
		}
		return fn(ctx)
	}

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	restore := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, &txState{})); err != nil {
		restore()
		return err
	}
	return nil
}

// ReadOnly executes fn holding the read lock.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if activeTx(ctx) != nil {
		return fn(ctx)
	}

	s := m.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(context.WithValue(ctx, txKey{}, &txState{readOnly: true}))
}

// read runs fn under the read lock unless ctx already holds a lock.
func (s *Store) read(ctx context.Context, fn func() error) error {
	if activeTx(ctx) != nil {
		return fn()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}

// write runs fn under the write lock unless ctx is inside a write
// transaction. A failed write outside a transaction is rolled back.
func (s *Store) write(ctx context.Context, fn func() error) error {
	if st := activeTx(ctx); st != nil {
		if st.readOnly {
			return errReadOnly
		}
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	restore := s.snapshot()
	if err := fn(); err != nil {
		restore()
		return err
	}
	return nil
}
