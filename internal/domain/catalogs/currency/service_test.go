package currency_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/catalogs/currency"
	"autoparts/internal/infrastructure/storage/memory"
)

func newService() *currency.Service {
	store := memory.NewStore()
	return currency.NewService(memory.NewRateRepo(store), memory.NewTxManager(store))
}

func TestService_SelectSwitchesDisplayCurrency(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	require.NoError(t, svc.Create(ctx, currency.NewRate("kzt", types.MustMoney("0.002"))))
	require.NoError(t, svc.Create(ctx, currency.NewRate("EUR", types.MustMoney("1.08"))))

	out, err := svc.FormatFromUSD(ctx, types.MustMoney("10"))
	require.NoError(t, err)
	assert.Equal(t, "10.00 USD", out)

	r, err := svc.Select(ctx, "kzt")
	require.NoError(t, err)
	assert.Equal(t, "KZT", r.Code)

	out, err = svc.FormatFromUSD(ctx, types.MustMoney("10"))
	require.NoError(t, err)
	assert.Equal(t, "5000.00 KZT", out)

	_, err = svc.Select(ctx, "EUR")
	require.NoError(t, err)
	selected, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", selected.Code)

	r, err = svc.Select(ctx, "usd")
	require.NoError(t, err)
	assert.Nil(t, r)
	selected, err = svc.Selected(ctx)
	require.NoError(t, err)
	assert.Nil(t, selected)
}

func TestService_SelectUnknownCode(t *testing.T) {
	_, err := newService().Select(context.Background(), "GBP")
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	require.NoError(t, svc.Create(ctx, currency.NewRate("EUR", types.MustMoney("1.08"))))
	err := svc.Create(ctx, currency.NewRate("eur", types.MustMoney("1.10")))
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestService_CreateSelectedClearsOthers(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	eur := currency.NewRate("EUR", types.MustMoney("1.08"))
	eur.Selected = true
	require.NoError(t, svc.Create(ctx, eur))

	kzt := currency.NewRate("KZT", types.MustMoney("0.002"))
	kzt.Selected = true
	require.NoError(t, svc.Create(ctx, kzt))

	got, err := svc.GetByID(ctx, eur.ID)
	require.NoError(t, err)
	assert.False(t, got.Selected)

	selected, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, kzt.ID, selected.ID)
}

func TestService_BaseCurrencyIsNeverSelected(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	usd := currency.NewRate("usd", types.MustMoney("1"))
	usd.Selected = true
	err := svc.Create(ctx, usd)
	assert.Equal(t, apperror.CodeValidation, codeOf(err))

	usd.Selected = false
	require.NoError(t, svc.Create(ctx, usd))

	usd.Selected = true
	err = svc.Update(ctx, usd)
	assert.Equal(t, apperror.CodeValidation, codeOf(err))

	selected, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Nil(t, selected)
}

func codeOf(err error) string {
	if e, ok := apperror.AsAppError(err); ok {
		return e.Code
	}
	return ""
}
