package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"autoparts/internal/domain/catalogs/currency"
	"autoparts/internal/domain/sales"
	"autoparts/internal/infrastructure/http/v1/dto"
	"autoparts/pkg/logger"
)

// DisplayCurrency resolves the currency amounts are shown in.
type DisplayCurrency interface {
	Selected(ctx context.Context) (*currency.Rate, error)
}

// SaleHandler serves sales and their items. Item writes move stock and the
// client balance in the same transaction.
type SaleHandler struct {
	*BaseHandler
	service  *sales.SaleService
	currency DisplayCurrency
}

// NewSaleHandler creates a new sale handler. display may be nil.
func NewSaleHandler(base *BaseHandler, service *sales.SaleService, display DisplayCurrency) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service, currency: display}
}

// displayRate falls back to USD when the rate cannot be read; a display
// string is never worth failing a request over.
func (h *SaleHandler) displayRate(ctx context.Context) *currency.Rate {
	if h.currency == nil {
		return nil
	}
	r, err := h.currency.Selected(ctx)
	if err != nil {
		logger.Warn(ctx, "display currency unavailable", "error", err)
		return nil
	}
	return r
}

// List handles GET /sales.
// Query: clientId, from, to (calendar dates, both inclusive), limit, offset.
func (h *SaleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	filter := sales.SaleFilter{ListFilter: h.ListFilter(c, "")}

	var ok bool
	if filter.ClientID, ok = h.ParseIDQuery(c, "clientId"); !ok {
		return
	}
	if filter.DateFrom, ok = h.ParseDateQuery(c, "from"); !ok {
		return
	}
	if filter.DateTo, ok = h.ParseUntilQuery(c, "to"); !ok {
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	rate := h.displayRate(ctx)
	h.OK(c, dto.NewListResponse(result, func(s *sales.Sale) dto.SaleResponse {
		return dto.FromSale(s, rate)
	}))
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	s, err := h.service.GetByID(ctx, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(s, h.displayRate(ctx)))
}

// Create handles POST /sales. Items sent with the header are posted at once.
func (h *SaleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s := req.ToEntity()
	if err := h.service.Create(ctx, s); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromSale(s, h.displayRate(ctx)))
}

// Delete handles DELETE /sales/:id. Sales with items are refused.
func (h *SaleHandler) Delete(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), saleID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ReassignClient handles PUT /sales/:id/client.
func (h *SaleHandler) ReassignClient(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReassignClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.ReassignClient(ctx, saleID, req.ClientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(s, h.displayRate(ctx)))
}

// AddItem handles POST /sales/:id/items.
func (h *SaleHandler) AddItem(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SaleItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToEntity()
	if err := h.service.AddItem(c.Request.Context(), saleID, item); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromSaleItem(item))
}

// UpdateItem handles PUT /sales/:id/items/:itemId.
func (h *SaleHandler) UpdateItem(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.SaleItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToEntity()
	item.ID = itemID
	if err := h.service.UpdateItem(c.Request.Context(), saleID, item); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSaleItem(item))
}

// DeleteItem handles DELETE /sales/:id/items/:itemId.
func (h *SaleHandler) DeleteItem(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), saleID, itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
