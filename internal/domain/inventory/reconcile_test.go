package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
)

func testIdentity(name string) Identity {
	return Identity{
		WarehouseID:   id.MustParse("01900000-0000-7000-8000-000000000001"),
		BrandID:       id.MustParse("01900000-0000-7000-8000-000000000002"),
		CountryID:     id.MustParse("01900000-0000-7000-8000-000000000003"),
		ArticleNumber: "OF-1",
		Name:          name,
	}
}

func TestApplyQuantity(t *testing.T) {
	tests := []struct {
		name        string
		current     int64
		delta       int64
		want        int64
		wantClamped bool
	}{
		{"increase", 3, 2, 5, false},
		{"decrease", 5, -2, 3, false},
		{"to zero", 5, -5, 0, false},
		{"below zero is floored", 2, -5, 0, true},
		{"zero delta", 4, 0, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := ApplyQuantity(tt.current, tt.delta)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantClamped, clamped)
		})
	}
}

func TestPlanArrivalLine_Create(t *testing.T) {
	next := &LineState{Identity: testIdentity("OIL FILTER"), Quantity: 10, CostPrice: types.MustMoney("5.00")}

	moves := PlanArrivalLine(nil, next)

	require.Len(t, moves, 1)
	assert.Equal(t, int64(10), moves[0].Delta)
	assert.True(t, moves[0].Create)
	require.NotNil(t, moves[0].CostPrice)
	assert.True(t, moves[0].CostPrice.Equal(types.MustMoney("5")))
}

func TestPlanArrivalLine_UpdateSameProduct(t *testing.T) {
	old := &LineState{Identity: testIdentity("OIL FILTER"), Quantity: 10, CostPrice: types.MustMoney("5")}
	next := &LineState{Identity: testIdentity("OIL FILTER"), Quantity: 4, CostPrice: types.MustMoney("6")}

	moves := PlanArrivalLine(old, next)

	require.Len(t, moves, 1)
	assert.Equal(t, int64(-6), moves[0].Delta)
	assert.True(t, moves[0].CostPrice.Equal(types.MustMoney("6")))
}

func TestPlanArrivalLine_Delete(t *testing.T) {
	old := &LineState{Identity: testIdentity("OIL FILTER"), Quantity: 7}

	moves := PlanArrivalLine(old, nil)

	require.Len(t, moves, 1)
	assert.Equal(t, int64(-7), moves[0].Delta)
	assert.False(t, moves[0].Create)
	assert.Nil(t, moves[0].CostPrice)
}

func TestPlanArrivalLine_IdentityChanged(t *testing.T) {
	old := &LineState{Identity: testIdentity("OIL FILTER"), Quantity: 10}
	next := &LineState{Identity: testIdentity("AIR FILTER"), Quantity: 3, CostPrice: types.MustMoney("2")}

	moves := PlanArrivalLine(old, next)

	require.Len(t, moves, 2)
	assert.Equal(t, "OIL FILTER", moves[0].Identity.Name)
	assert.Equal(t, int64(-10), moves[0].Delta)
	assert.False(t, moves[0].Create)
	assert.Equal(t, "AIR FILTER", moves[1].Identity.Name)
	assert.Equal(t, int64(3), moves[1].Delta)
	assert.True(t, moves[1].Create)
}

func TestPlanArrivalLine_Nothing(t *testing.T) {
	assert.Empty(t, PlanArrivalLine(nil, nil))
}

func TestArrival_TotalAmount(t *testing.T) {
	a := &Arrival{Lines: []ArrivalLine{
		{Quantity: 2, CostPrice: types.MustMoney("10.50")},
		{Quantity: 3, CostPrice: types.MustMoney("1.25")},
	}}
	assert.True(t, a.TotalAmount().Equal(types.MustMoney("24.75")))
}

func TestArrivalLine_NormalizeAndValidate(t *testing.T) {
	line := &ArrivalLine{
		Name:      "  oil   filter ",
		BrandID:   id.New(),
		Quantity:  1,
		CostPrice: types.MustMoney("1"),
	}
	line.Normalize()
	require.NoError(t, line.Validate(context.Background()))
	assert.Equal(t, "OIL FILTER", line.Name)

	line.Quantity = -1
	assert.Error(t, line.Validate(context.Background()))

	blank := &ArrivalLine{Name: "   ", BrandID: id.New()}
	blank.Normalize()
	assert.Error(t, blank.Validate(context.Background()))
}
