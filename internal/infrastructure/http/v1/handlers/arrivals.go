package handlers

import (
	"github.com/gin-gonic/gin"

	"autoparts/internal/domain/inventory"
	"autoparts/internal/infrastructure/http/v1/dto"
)

// ArrivalHandler serves arrivals and their lines. Every line write moves
// product stock in the same transaction.
type ArrivalHandler struct {
	*BaseHandler
	service *inventory.ArrivalService
}

// NewArrivalHandler creates a new arrival handler.
func NewArrivalHandler(base *BaseHandler, service *inventory.ArrivalService) *ArrivalHandler {
	return &ArrivalHandler{BaseHandler: base, service: service}
}

// List handles GET /arrivals.
// Query: warehouseId, from, to (calendar dates, both inclusive), limit, offset.
func (h *ArrivalHandler) List(c *gin.Context) {
	filter := inventory.ArrivalFilter{ListFilter: h.ListFilter(c, "")}

	var ok bool
	if filter.WarehouseID, ok = h.ParseIDQuery(c, "warehouseId"); !ok {
		return
	}
	if filter.DateFrom, ok = h.ParseDateQuery(c, "from"); !ok {
		return
	}
	if filter.DateTo, ok = h.ParseDateQuery(c, "to"); !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result, dto.FromArrival))
}

// Get handles GET /arrivals/:id.
func (h *ArrivalHandler) Get(c *gin.Context) {
	arrivalID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), arrivalID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromArrival(a))
}

// Create handles POST /arrivals. Lines sent with the header are booked at once.
func (h *ArrivalHandler) Create(c *gin.Context) {
	var req dto.CreateArrivalRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), a); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromArrival(a))
}

// Update handles PUT /arrivals/:id (header fields only).
func (h *ArrivalHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	arrivalID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateArrivalRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.service.GetByID(ctx, arrivalID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(a)
	if err := h.service.Update(ctx, a); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromArrival(a))
}

// Delete handles DELETE /arrivals/:id. Arrivals with lines are refused.
func (h *ArrivalHandler) Delete(c *gin.Context) {
	arrivalID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), arrivalID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// AddLine handles POST /arrivals/:id/lines.
func (h *ArrivalHandler) AddLine(c *gin.Context) {
	arrivalID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ArrivalLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line := req.ToEntity()
	if err := h.service.AddLine(c.Request.Context(), arrivalID, line); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromArrivalLine(line))
}

// UpdateLine handles PUT /arrivals/:id/lines/:lineId.
func (h *ArrivalHandler) UpdateLine(c *gin.Context) {
	arrivalID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParseID(c, "lineId")
	if !ok {
		return
	}

	var req dto.ArrivalLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	line := req.ToEntity()
	line.ID = lineID
	if err := h.service.UpdateLine(c.Request.Context(), arrivalID, line); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromArrivalLine(line))
}

// DeleteLine handles DELETE /arrivals/:id/lines/:lineId.
func (h *ArrivalHandler) DeleteLine(c *gin.Context) {
	arrivalID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParseID(c, "lineId")
	if !ok {
		return
	}

	if err := h.service.DeleteLine(c.Request.Context(), arrivalID, lineID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
