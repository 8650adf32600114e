package handlers

import (
	"github.com/gin-gonic/gin"

	"autoparts/internal/domain/inventory"
	"autoparts/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves stocked products. Products are created and counted
// by arrivals and sales; here they are only listed and annotated.
type ProductHandler struct {
	*BaseHandler
	service *inventory.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *inventory.ProductService) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// List handles GET /products.
// Query: search, warehouseId, brandId, countryId, inStock, orderBy, limit, offset.
func (h *ProductHandler) List(c *gin.Context) {
	filter := inventory.ProductFilter{ListFilter: h.ListFilter(c, "name")}

	var ok bool
	if filter.WarehouseID, ok = h.ParseIDQuery(c, "warehouseId"); !ok {
		return
	}
	if filter.BrandID, ok = h.ParseIDQuery(c, "brandId"); !ok {
		return
	}
	if filter.CountryID, ok = h.ParseIDQuery(c, "countryId"); !ok {
		return
	}
	filter.InStockOnly = c.Query("inStock") == "true"

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result, dto.FromProduct))
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// Update handles PATCH /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdateDetails(c.Request.Context(), productID, req.ToPatch())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}
