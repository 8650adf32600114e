package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/reports"
)

func TestSaleItems_Layout(t *testing.T) {
	period := reports.DayPeriod(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	saleID := id.New()
	exp := &reports.SaleItemExport{
		Period: &period,
		Rows: []reports.SaleItemRow{{
			SaleID:        saleID,
			SaleDate:      time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC),
			ClientName:    "Ivan Petrov",
			ProductName:   "OIL FILTER",
			ArticleNumber: "OF-1",
			Quantity:      3,
			SalePrice:     types.MustMoney("9.50"),
		}},
		Total: types.MustMoney("28.50"),
	}

	f, err := SaleItems(exp)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	// Read back what a user would open.
	got, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer got.Close()

	cell := func(axis string) string {
		v, err := got.GetCellValue(saleItemsSheet, axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Period: 2026-03-01 - 2026-03-31", cell("D1"))
	assert.Equal(t, "Total sales: 28.50", cell("D2"))
	assert.Equal(t, "Sale ID", cell("A4"))
	assert.Equal(t, "Total", cell("H4"))
	assert.Equal(t, saleID.String(), cell("A5"))
	assert.Equal(t, "2026-03-05 14:30", cell("B5"))
	assert.Equal(t, "OIL FILTER", cell("D5"))
	assert.Equal(t, "3", cell("F5"))
	assert.Equal(t, "28.5", cell("H5"))
	assert.Empty(t, cell("A6"))
}

func TestSaleItems_AllTime(t *testing.T) {
	exp := &reports.SaleItemExport{Total: types.Zero()}

	f, err := SaleItems(exp)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(saleItemsSheet, "D1")
	require.NoError(t, err)
	assert.Equal(t, "Period: all time", v)
	assert.Equal(t, "sale_items.xlsx", SaleItemsFilename(exp))
}
