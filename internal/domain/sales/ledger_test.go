package sales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
)

func TestPlanSaleItem(t *testing.T) {
	p1 := id.MustParse("01900000-0000-7000-8000-0000000000a1")
	p2 := id.MustParse("01900000-0000-7000-8000-0000000000a2")

	tests := []struct {
		name      string
		old, next *ItemState
		takes     []StockTake
		balance   string
	}{
		{
			name:    "create",
			next:    &ItemState{ProductID: p1, Quantity: 3, SalePrice: types.MustMoney("10")},
			takes:   []StockTake{{ProductID: p1, Take: 3}},
			balance: "30",
		},
		{
			name:    "increase quantity and price",
			old:     &ItemState{ProductID: p1, Quantity: 3, SalePrice: types.MustMoney("10")},
			next:    &ItemState{ProductID: p1, Quantity: 5, SalePrice: types.MustMoney("12")},
			takes:   []StockTake{{ProductID: p1, Take: 2}},
			balance: "30",
		},
		{
			name:    "decrease quantity",
			old:     &ItemState{ProductID: p1, Quantity: 5, SalePrice: types.MustMoney("10")},
			next:    &ItemState{ProductID: p1, Quantity: 1, SalePrice: types.MustMoney("10")},
			takes:   []StockTake{{ProductID: p1, Take: -4}},
			balance: "-40",
		},
		{
			name:    "delete",
			old:     &ItemState{ProductID: p1, Quantity: 2, SalePrice: types.MustMoney("7.50")},
			takes:   []StockTake{{ProductID: p1, Take: -2}},
			balance: "-15",
		},
		{
			name: "switch product",
			old:  &ItemState{ProductID: p1, Quantity: 2, SalePrice: types.MustMoney("5")},
			next: &ItemState{ProductID: p2, Quantity: 4, SalePrice: types.MustMoney("5")},
			takes: []StockTake{
				{ProductID: p1, Take: -2},
				{ProductID: p2, Take: 4},
			},
			balance: "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanSaleItem(tt.old, tt.next)
			assert.Equal(t, tt.takes, plan.Takes)
			assert.True(t, plan.BalanceDelta.Equal(types.MustMoney(tt.balance)),
				"balance delta %s, want %s", plan.BalanceDelta, tt.balance)
		})
	}
}

func TestLedgerPlan_ProductIDsSorted(t *testing.T) {
	a := id.MustParse("01900000-0000-7000-8000-0000000000a1")
	b := id.MustParse("01900000-0000-7000-8000-0000000000b1")

	plan := LedgerPlan{Takes: []StockTake{{ProductID: b, Take: 1}, {ProductID: a, Take: -1}}}
	assert.Equal(t, []id.ID{a, b}, plan.ProductIDs())
}

func TestCheckStock(t *testing.T) {
	pid := id.New()

	require.NoError(t, CheckStock(pid, 5, 5))
	require.NoError(t, CheckStock(pid, 0, 0))
	require.NoError(t, CheckStock(pid, 0, -3))

	err := CheckStock(pid, 2, 3)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(3), appErr.Details["requested"])
	assert.Equal(t, int64(2), appErr.Details["available"])
}

func TestSale_TotalAmount(t *testing.T) {
	s := &Sale{Items: []SaleItem{
		{Quantity: 2, SalePrice: types.MustMoney("9.99")},
		{Quantity: 1, SalePrice: types.MustMoney("0.02")},
	}}
	assert.True(t, s.TotalAmount().Equal(types.MustMoney("20")))
}
