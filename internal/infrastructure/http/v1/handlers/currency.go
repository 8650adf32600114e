package handlers

import (
	"github.com/gin-gonic/gin"

	"autoparts/internal/domain/catalogs/currency"
	"autoparts/internal/infrastructure/http/v1/dto"
)

// CurrencyHandler serves currency rates and the display currency selection.
type CurrencyHandler struct {
	*CatalogHandler[*currency.Rate, dto.RateRequest]
	service *currency.Service
}

// NewCurrencyHandler creates a new currency rate handler.
func NewCurrencyHandler(base *BaseHandler, service *currency.Service) *CurrencyHandler {
	return &CurrencyHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*currency.Rate, dto.RateRequest]{
			Service:      service.CatalogService,
			EntityName:   "currency rate",
			MapCreateDTO: dto.RateRequest.ToEntity,
			MapUpdateDTO: dto.RateRequest.ApplyTo,
			MapToDTO:     anyDTO(dto.FromRate),
		}),
		service: service,
	}
}

// Select handles POST /currency-rates/select.
func (h *CurrencyHandler) Select(c *gin.Context) {
	var req dto.SelectCurrencyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.Select(c.Request.Context(), req.CurrencyCode)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.SelectedCurrencyResponse{CurrencyCode: currency.BaseCode}
	if r != nil {
		rate := dto.FromRate(r)
		resp.CurrencyCode = r.Code
		resp.Rate = &rate
	}
	h.OK(c, resp)
}
