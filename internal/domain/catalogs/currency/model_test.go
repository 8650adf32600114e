package currency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"autoparts/internal/core/types"
)

func TestFormat(t *testing.T) {
	kzt := NewRate("kzt", types.MustMoney("0.002"))
	eur := NewRate("EUR", types.MustMoney("1.08"))

	tests := []struct {
		name     string
		amount   string
		selected *Rate
		want     string
	}{
		{"nothing selected", "10.5", nil, "10.50 USD"},
		{"divides by rate", "10", kzt, "5000.00 KZT"},
		{"rounds to cents", "100", eur, "92.59 EUR"},
		{"zero", "0", eur, "0.00 EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(types.MustMoney(tt.amount), tt.selected))
		})
	}
}

func TestRate_FromUSD_BankersRounding(t *testing.T) {
	r := NewRate("XXX", types.MustMoney("2"))
	// 0.025 is exactly halfway and rounds to the even cent
	assert.Equal(t, "0.02", r.FromUSD(types.MustMoney("0.05")).StringFixed(2))
}

func TestRate_Validate(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewRate(" eur ", types.MustMoney("1.1")).Validate(ctx))
	assert.Error(t, NewRate("EURO", types.MustMoney("1.1")).Validate(ctx))
	assert.Error(t, NewRate("E1R", types.MustMoney("1.1")).Validate(ctx))
	assert.Error(t, NewRate("EUR", types.MustMoney("0")).Validate(ctx))
}
