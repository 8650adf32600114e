package handlers

import (
	"github.com/gin-gonic/gin"

	"autoparts/internal/domain/sales"
	"autoparts/internal/infrastructure/http/v1/dto"
)

// PaymentHandler serves client payments. Payments are never edited.
type PaymentHandler struct {
	*BaseHandler
	service *sales.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(base *BaseHandler, service *sales.PaymentService) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, service: service}
}

// List handles GET /payments.
// Query: clientId, from, to (calendar dates, both inclusive), limit, offset.
func (h *PaymentHandler) List(c *gin.Context) {
	filter := sales.PaymentFilter{ListFilter: h.ListFilter(c, "")}

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

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result, dto.FromPayment))
}

// Get handles GET /payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPayment(p))
}

// Create handles POST /payments.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromPayment(p))
}

// Update handles PUT /payments/:id and always answers 409 IMMUTABLE_RECORD.
func (h *PaymentHandler) Update(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	h.Error(c, h.service.Update(c.Request.Context(), paymentID))
}

// Delete handles DELETE /payments/:id.
func (h *PaymentHandler) Delete(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), paymentID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
