package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/types"
	"autoparts/internal/domain"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/sales"
)

func TestTxManager_RollsBackEveryTable(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	txm := NewTxManager(s)
	warehouses := NewWarehouseRepo(s)
	clients := NewClientRepo(s)

	w := warehouse.NewWarehouse("Main")
	boom := errors.New("boom")

	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, warehouses.Create(ctx, w))
		require.NoError(t, clients.Create(ctx, client.NewClient("Ivan", "+7 700")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = warehouses.GetByID(ctx, w.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, s.clients)
}

func TestTxManager_NestedCallsJoinOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	txm := NewTxManager(s)
	warehouses := NewWarehouseRepo(s)

	w := warehouse.NewWarehouse("Main")
	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return warehouses.Create(ctx, w)
		})
	})
	require.NoError(t, err)

	got, err := warehouses.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main", got.Name)
}

func TestTxManager_ReadOnlyRejectsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	txm := NewTxManager(s)
	warehouses := NewWarehouseRepo(s)

	err := txm.ReadOnly(ctx, func(ctx context.Context) error {
		return warehouses.Create(ctx, warehouse.NewWarehouse("Main"))
	})
	require.ErrorIs(t, err, errReadOnly)
	assert.Empty(t, s.warehouses)
}

func TestCatalogRepo_UpdateChecksVersion(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewWarehouseRepo(s)

	w := warehouse.NewWarehouse("Main")
	require.NoError(t, repo.Create(ctx, w))

	first, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)

	first.Name = "North"
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, w.Version+1, first.Version)

	second.Name = "South"
	err = repo.Update(ctx, second)
	assert.True(t, apperror.IsConcurrentModification(err))
}

func TestCatalogRepo_DeleteReferencedWarehouse(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewWarehouseRepo(s)

	w := warehouse.NewWarehouse("Main")
	require.NoError(t, repo.Create(ctx, w))
	a := inventory.NewArrival(w.ID, w.ID, w.CreatedAt)
	s.arrivals[a.ID] = *a

	err := repo.Delete(ctx, w.ID)
	assert.True(t, apperror.IsReferenceIntegrity(err))

	delete(s.arrivals, a.ID)
	require.NoError(t, repo.Delete(ctx, w.ID))
}

func TestCatalogRepo_ListSearchAndPage(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewWarehouseRepo(s)
	for _, name := range []string{"Almaty", "Astana", "Karaganda", "Shymkent"} {
		require.NoError(t, repo.Create(ctx, warehouse.NewWarehouse(name)))
	}

	res, err := repo.List(ctx, domain.ListFilter{Search: "a", OrderBy: "name", Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.TotalCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Almaty", res.Items[0].Name)

	res, err = repo.List(ctx, domain.ListFilter{Search: "shym"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Shymkent", res.Items[0].Name)
}

func TestClientRepo_UpdateKeepsBalance(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewClientRepo(s)

	c := client.NewClient("Ivan", "+7 700")
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.SetBalance(ctx, c.ID, types.MustMoney("150")))

	edit, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	edit.FullName = "Ivan Petrov"
	edit.Balance = types.Zero()
	require.NoError(t, repo.Update(ctx, edit))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan Petrov", got.FullName)
	assert.True(t, got.Balance.Equal(types.MustMoney("150")))
}

func TestClientRepo_DeleteWithPayments(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewClientRepo(s)

	c := client.NewClient("Ivan", "+7 700")
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, NewPaymentRepo(s).Create(ctx, sales.NewPayment(c.ID, types.MustMoney("10"))))

	err := repo.Delete(ctx, c.ID)
	assert.True(t, apperror.IsReferenceIntegrity(err))
}
