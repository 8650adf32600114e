package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"autoparts/internal/core/apperror"
	"autoparts/internal/domain/reports"
	"autoparts/internal/infrastructure/export"
	"autoparts/pkg/logger"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetInventory handles GET /reports/inventory?warehouseId=
func (h *ReportsHandler) GetInventory(c *gin.Context) {
	warehouseID, ok := h.ParseIDQuery(c, "warehouseId")
	if !ok {
		return
	}

	report, err := h.service.Inventory(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetUnsold handles GET /reports/unsold?days=&warehouseId=&limit=&offset=
func (h *ReportsHandler) GetUnsold(c *gin.Context) {
	filter := reports.UnsoldFilter{
		Days:   h.ParseIntQuery(c, "days", 30),
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	var ok bool
	if filter.WarehouseID, ok = h.ParseIDQuery(c, "warehouseId"); !ok {
		return
	}

	report, err := h.service.Unsold(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetProfit handles GET /reports/profit?year=&top=
// The year defaults to the current one.
func (h *ReportsHandler) GetProfit(c *gin.Context) {
	filter := reports.ProfitFilter{Top: h.ParseIntQuery(c, "top", 20)}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("year must be a number").WithDetail("param", "year"))
			return
		}
		filter.Year = year
	}

	report, err := h.service.Profit(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetSales handles GET /reports/sales?from=&to=&top=
// Both dates are inclusive; the default period is the last year.
func (h *ReportsHandler) GetSales(c *gin.Context) {
	filter := reports.SalesSummaryFilter{Top: h.ParseIntQuery(c, "top", 20)}

	var ok bool
	if filter.From, ok = h.ParseDateQuery(c, "from"); !ok {
		return
	}
	if filter.To, ok = h.ParseDateQuery(c, "to"); !ok {
		return
	}

	summary, err := h.service.SalesSummary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// ExportSaleItems handles GET /sale-items/export?from=&to=
// Without dates every sale item is exported.
func (h *ReportsHandler) ExportSaleItems(c *gin.Context) {
	ctx := c.Request.Context()

	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	data, err := h.service.SaleItems(ctx, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	f, err := export.SaleItems(data)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn(ctx, "close workbook", "error", err)
		}
	}()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.SaleItemsFilename(data)))
	c.Header("Content-Type", export.ContentTypeXLSX)
	c.Status(http.StatusOK)
	if _, err := f.WriteTo(c.Writer); err != nil {
		logger.Error(ctx, "write workbook", "error", err)
	}
}
