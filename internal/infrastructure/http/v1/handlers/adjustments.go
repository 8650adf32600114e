package handlers

import (
	"github.com/gin-gonic/gin"

	"autoparts/internal/core/apperror"
	"autoparts/internal/domain/adjustment"
)

// AdjustmentHandler exposes the stock and balance audit trail.
type AdjustmentHandler struct {
	*BaseHandler
	journal *adjustment.Journal
}

// NewAdjustmentHandler creates a new adjustment handler.
func NewAdjustmentHandler(base *BaseHandler, journal *adjustment.Journal) *AdjustmentHandler {
	return &AdjustmentHandler{BaseHandler: base, journal: journal}
}

// List handles GET /adjustments?aggregate=&aggregateId=&clamped=&limit=
func (h *AdjustmentHandler) List(c *gin.Context) {
	filter := adjustment.Filter{
		Aggregate:   adjustment.Aggregate(c.Query("aggregate")),
		ClampedOnly: c.Query("clamped") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 100),
	}
	switch filter.Aggregate {
	case "", adjustment.AggregateProduct, adjustment.AggregateClient:
	default:
		h.Error(c, apperror.NewValidation("aggregate must be product or client").
			WithDetail("param", "aggregate"))
		return
	}

	var ok bool
	if filter.AggregateID, ok = h.ParseIDQuery(c, "aggregateId"); !ok {
		return
	}

	events, err := h.journal.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": events})
}
