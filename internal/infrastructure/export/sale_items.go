// Package export renders report data as spreadsheets.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"autoparts/internal/domain/reports"
)

const (
	saleItemsSheet = "Sale items"

	// ContentTypeXLSX is the MIME type of the generated workbooks.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// saleItemsHeaderRow is where column headings go; rows 1-2 hold the
	// period and total, row 3 is blank.
	saleItemsHeaderRow = 4
)

var saleItemHeaders = []string{
	"Sale ID", "Sale date", "Client", "Product", "Article", "Quantity", "Sale price", "Total",
}

// SaleItemsFilename names the workbook after its period.
func SaleItemsFilename(exp *reports.SaleItemExport) string {
	if exp.Period == nil {
		return "sale_items.xlsx"
	}
	return fmt.Sprintf("sale_items_%s_%s.xlsx",
		exp.Period.From.Format("2006-01-02"),
		exp.Period.To.AddDate(0, 0, -1).Format("2006-01-02"))
}

// PeriodLabel is the D1 caption.
func PeriodLabel(p *reports.Period) string {
	if p == nil {
		return "Period: all time"
	}
	return fmt.Sprintf("Period: %s - %s",
		p.From.Format("2006-01-02"),
		p.To.AddDate(0, 0, -1).Format("2006-01-02"))
}

// SaleItems builds the sale item workbook. The caller must Close it.
func SaleItems(exp *reports.SaleItemExport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", saleItemsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	sheet := saleItemsSheet

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}

	// Top info
	for _, cell := range []struct{ from, to, value string }{
		{"D1", "H1", PeriodLabel(exp.Period)},
		{"D2", "H2", "Total sales: " + exp.Total.StringFixed(2)},
	} {
		if err := f.MergeCell(sheet, cell.from, cell.to); err != nil {
			f.Close()
			return nil, fmt.Errorf("merge %s: %w", cell.from, err)
		}
		f.SetCellValue(sheet, cell.from, cell.value)
		f.SetCellStyle(sheet, cell.from, cell.to, bold)
	}

	// Headers
	for i, h := range saleItemHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, saleItemsHeaderRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	// Data
	for i, r := range exp.Rows {
		row := saleItemsHeaderRow + 1 + i
		values := []any{
			r.SaleID.String(),
			r.SaleDate.Format("2006-01-02 15:04"),
			r.ClientName,
			r.ProductName,
			r.ArticleNumber,
			r.Quantity,
			r.SalePrice.InexactFloat64(),
			r.Total().InexactFloat64(),
		}
		start := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		f.SetCellStyle(sheet, start, fmt.Sprintf("H%d", row), bodyStyle)
	}

	colWidths := []float64{38, 18, 28, 32, 16, 10, 12, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	return f, nil
}
