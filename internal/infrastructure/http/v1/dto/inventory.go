package dto

import (
	"time"

	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/inventory"
)

// --- Product ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	BaseResponse
	WarehouseID   string       `json:"warehouseId"`
	BrandID       string       `json:"brandId"`
	CountryID     string       `json:"countryId"`
	ArticleNumber string       `json:"articleNumber,omitempty"`
	Name          string       `json:"name"`
	Quantity      int64        `json:"quantity"`
	CostPrice     *types.Money `json:"costPrice,omitempty"`
	SellingPrice  *types.Money `json:"sellingPrice,omitempty"`
	SuitsFor      string       `json:"suitsFor,omitempty"`
}

// FromProduct converts entity to response DTO.
func FromProduct(p *inventory.Product) ProductResponse {
	return ProductResponse{
		BaseResponse:  FromBase(p.BaseEntity),
		WarehouseID:   p.WarehouseID.String(),
		BrandID:       p.BrandID.String(),
		CountryID:     p.CountryID.String(),
		ArticleNumber: p.ArticleNumber,
		Name:          p.Name,
		Quantity:      p.Quantity,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		SuitsFor:      p.SuitsFor,
	}
}

// UpdateProductRequest edits the hand-maintained product fields.
// Quantity and cost price are not accepted.
type UpdateProductRequest struct {
	SellingPrice      *types.Money `json:"sellingPrice"`
	ClearSellingPrice bool         `json:"clearSellingPrice"`
	SuitsFor          *string      `json:"suitsFor"`
	Version           int          `json:"version"`
}

// ToPatch converts DTO to a domain patch.
func (r UpdateProductRequest) ToPatch() inventory.DetailsPatch {
	return inventory.DetailsPatch{
		SellingPrice:      r.SellingPrice,
		ClearSellingPrice: r.ClearSellingPrice,
		SuitsFor:          r.SuitsFor,
		Version:           r.Version,
	}
}

// --- Arrival ---

// ArrivalLineRequest is one line of an arrival.
type ArrivalLineRequest struct {
	BrandID       id.ID       `json:"brandId"`
	Name          string      `json:"name" binding:"required"`
	ArticleNumber string      `json:"articleNumber"`
	Quantity      int64       `json:"quantity" binding:"min=0"`
	CostPrice     types.Money `json:"costPrice"`
	SuitsFor      string      `json:"suitsFor"`
}

// ToEntity converts DTO to a new line.
func (r ArrivalLineRequest) ToEntity() *inventory.ArrivalLine {
	line := inventory.NewArrivalLine(r.BrandID, r.Name, r.Quantity, r.CostPrice)
	line.ArticleNumber = r.ArticleNumber
	line.SuitsFor = r.SuitsFor
	return line
}

// CreateArrivalRequest is the request body for creating an arrival.
type CreateArrivalRequest struct {
	WarehouseID id.ID                `json:"warehouseId"`
	CountryID   id.ID                `json:"countryId"`
	ArrivalDate *time.Time           `json:"arrivalDate"`
	Comment     string               `json:"comment"`
	Lines       []ArrivalLineRequest `json:"lines" binding:"dive"`
}

// ToEntity converts DTO to domain entity. The date defaults to now.
func (r CreateArrivalRequest) ToEntity() *inventory.Arrival {
	date := time.Now().UTC()
	if r.ArrivalDate != nil {
		date = *r.ArrivalDate
	}
	a := inventory.NewArrival(r.WarehouseID, r.CountryID, date)
	a.Comment = r.Comment
	for _, l := range r.Lines {
		a.Lines = append(a.Lines, *l.ToEntity())
	}
	return a
}

// UpdateArrivalRequest is the request body for updating an arrival header.
type UpdateArrivalRequest struct {
	WarehouseID *id.ID     `json:"warehouseId"`
	CountryID   *id.ID     `json:"countryId"`
	ArrivalDate *time.Time `json:"arrivalDate"`
	Comment     *string    `json:"comment"`
	Version     int        `json:"version"`
}

// ApplyTo applies update DTO to existing entity.
func (r UpdateArrivalRequest) ApplyTo(a *inventory.Arrival) {
	if r.WarehouseID != nil {
		a.WarehouseID = *r.WarehouseID
	}
	if r.CountryID != nil {
		a.CountryID = *r.CountryID
	}
	if r.ArrivalDate != nil {
		a.ArrivalDate = *r.ArrivalDate
	}
	if r.Comment != nil {
		a.Comment = *r.Comment
	}
	setVersion(&a.BaseEntity, r.Version)
}

// ArrivalLineResponse is one line of an arrival response.
type ArrivalLineResponse struct {
	ID            string      `json:"id"`
	BrandID       string      `json:"brandId"`
	Name          string      `json:"name"`
	ArticleNumber string      `json:"articleNumber,omitempty"`
	Quantity      int64       `json:"quantity"`
	CostPrice     types.Money `json:"costPrice"`
	SuitsFor      string      `json:"suitsFor,omitempty"`
	TotalCost     types.Money `json:"totalCost"`
}

// FromArrivalLine converts a line to response DTO.
func FromArrivalLine(l *inventory.ArrivalLine) ArrivalLineResponse {
	return ArrivalLineResponse{
		ID:            l.ID.String(),
		BrandID:       l.BrandID.String(),
		Name:          l.Name,
		ArticleNumber: l.ArticleNumber,
		Quantity:      l.Quantity,
		CostPrice:     l.CostPrice,
		SuitsFor:      l.SuitsFor,
		TotalCost:     l.TotalCost(),
	}
}

// ArrivalResponse is the response body for an arrival.
type ArrivalResponse struct {
	BaseResponse
	WarehouseID string                `json:"warehouseId"`
	CountryID   string                `json:"countryId"`
	ArrivalDate time.Time             `json:"arrivalDate"`
	Comment     string                `json:"comment,omitempty"`
	Lines       []ArrivalLineResponse `json:"lines"`
	TotalAmount types.Money           `json:"totalAmount"`
}

// FromArrival converts entity to response DTO.
func FromArrival(a *inventory.Arrival) ArrivalResponse {
	lines := make([]ArrivalLineResponse, len(a.Lines))
	for i := range a.Lines {
		lines[i] = FromArrivalLine(&a.Lines[i])
	}
	return ArrivalResponse{
		BaseResponse: FromBase(a.BaseEntity),
		WarehouseID:  a.WarehouseID.String(),
		CountryID:    a.CountryID.String(),
		ArrivalDate:  a.ArrivalDate,
		Comment:      a.Comment,
		Lines:        lines,
		TotalAmount:  a.TotalAmount(),
	}
}
