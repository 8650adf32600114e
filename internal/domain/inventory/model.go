// Package inventory provides products, stock arrivals and the reconciliation
// that keeps Product.Quantity in step with arrival lines.
package inventory

import (
	"context"
	"strings"
	"unicode/utf8"
	"time"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/entity"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/naming"
)

// Identity is the tuple that names one stocked product. Two arrival lines
// with the same identity feed the same product row.
type Identity struct {
	WarehouseID   id.ID  `json:"warehouseId"`
	BrandID       id.ID  `json:"brandId"`
	CountryID     id.ID  `json:"countryId"`
	ArticleNumber string `json:"articleNumber"`
	Name          string `json:"name"`
}

// Product is an on-hand stock row. Quantity is owned by the reconciler.
type Product struct {
	entity.BaseEntity

	WarehouseID   id.ID        `db:"warehouse_id" json:"warehouseId"`
	BrandID       id.ID        `db:"brand_id" json:"brandId"`
	CountryID     id.ID        `db:"country_id" json:"countryId"`
	ArticleNumber string       `db:"article_number" json:"articleNumber,omitempty"`
	Name          string       `db:"name" json:"name"`
	Quantity      int64        `db:"quantity" json:"quantity"`
	CostPrice     *types.Money `db:"cost_price" json:"costPrice,omitempty"`
	SellingPrice  *types.Money `db:"selling_price" json:"sellingPrice,omitempty"`
	SuitsFor      string       `db:"suits_for" json:"suitsFor,omitempty"`
}

// NewProduct creates an empty product for identity.
func NewProduct(identity Identity, costPrice *types.Money, suitsFor string) *Product {
	p := &Product{
		BaseEntity:    entity.NewBaseEntity(),
		WarehouseID:   identity.WarehouseID,
		BrandID:       identity.BrandID,
		CountryID:     identity.CountryID,
		ArticleNumber: identity.ArticleNumber,
		Name:          identity.Name,
		SuitsFor:      suitsFor,
	}
	if costPrice != nil {
		p.CostPrice = types.MoneyPtr(*costPrice)
	}
	return p
}

// Identity returns the product's identity tuple.
func (p *Product) Identity() Identity {
	return Identity{
		WarehouseID:   p.WarehouseID,
		BrandID:       p.BrandID,
		CountryID:     p.CountryID,
		ArticleNumber: p.ArticleNumber,
		Name:          p.Name,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.Quantity < 0 {
		return apperror.NewValidation("quantity must not be negative").WithDetail("field", "quantity")
	}
	if p.SellingPrice != nil {
		if err := types.ValidatePrice("selling price", *p.SellingPrice); err != nil {
			return apperror.NewValidation(err.Error()).WithDetail("field", "sellingPrice")
		}
	}
	if utf8.RuneCountInString(p.SuitsFor) > 200 {
		return apperror.NewValidation("suits for is too long").
			WithDetail("field", "suitsFor").
			WithDetail("max", 200)
	}
	return nil
}

// Arrival is a delivery of goods into one warehouse from one country of origin.
type Arrival struct {
	entity.BaseEntity

	WarehouseID id.ID     `db:"warehouse_id" json:"warehouseId"`
	CountryID   id.ID     `db:"country_id" json:"countryId"`
	ArrivalDate time.Time `db:"arrival_date" json:"arrivalDate"`
	Comment     string    `db:"comment" json:"comment,omitempty"`

	// Table part
	Lines []ArrivalLine `db:"-" json:"lines"`
}

// NewArrival creates an arrival header.
func NewArrival(warehouseID, countryID id.ID, date time.Time) *Arrival {
	return &Arrival{
		BaseEntity:  entity.NewBaseEntity(),
		WarehouseID: warehouseID,
		CountryID:   countryID,
		ArrivalDate: date,
		Lines:       make([]ArrivalLine, 0),
	}
}

// TotalAmount is the cost of all lines. Derived on every read.
func (a *Arrival) TotalAmount() types.Money {
	total := types.Zero()
	for i := range a.Lines {
		total = total.Add(a.Lines[i].TotalCost())
	}
	return total
}

// Validate implements entity.Validatable.
func (a *Arrival) Validate(ctx context.Context) error {
	if id.IsNil(a.WarehouseID) {
		return apperror.NewValidation("warehouse is required").WithDetail("field", "warehouseId")
	}
	if id.IsNil(a.CountryID) {
		return apperror.NewValidation("country of origin is required").WithDetail("field", "countryId")
	}
	if a.ArrivalDate.IsZero() {
		return apperror.NewValidation("arrival date is required").WithDetail("field", "arrivalDate")
	}
	if utf8.RuneCountInString(a.Comment) > 500 {
		return apperror.NewValidation("comment is too long").
			WithDetail("field", "comment").
			WithDetail("max", 500)
	}
	return nil
}

// ArrivalLine is one product row of an arrival.
type ArrivalLine struct {
	entity.BaseEntity

	ArrivalID     id.ID       `db:"arrival_id" json:"arrivalId"`
	BrandID       id.ID       `db:"brand_id" json:"brandId"`
	Name          string      `db:"name" json:"name"`
	ArticleNumber string      `db:"article_number" json:"articleNumber,omitempty"`
	Quantity      int64       `db:"quantity" json:"quantity"`
	CostPrice     types.Money `db:"cost_price" json:"costPrice"`
	SuitsFor      string      `db:"suits_for" json:"suitsFor,omitempty"`
}

// NewArrivalLine creates a line with a fresh ID.
func NewArrivalLine(brandID id.ID, name string, quantity int64, costPrice types.Money) *ArrivalLine {
	return &ArrivalLine{
		BaseEntity: entity.NewBaseEntity(),
		BrandID:    brandID,
		Name:       name,
		Quantity:   quantity,
		CostPrice:  costPrice,
	}
}

// TotalCost is quantity × cost price.
func (l *ArrivalLine) TotalCost() types.Money {
	return types.LineTotal(l.Quantity, l.CostPrice)
}

// Normalize canonicalises the free-text fields before persisting.
func (l *ArrivalLine) Normalize() {
	l.Name = naming.Normalize(l.Name)
	l.ArticleNumber = strings.TrimSpace(l.ArticleNumber)
	l.SuitsFor = strings.TrimSpace(l.SuitsFor)
}

// Identity is the product this line feeds, given its parent arrival.
func (l *ArrivalLine) Identity(a *Arrival) Identity {
	return Identity{
		WarehouseID:   a.WarehouseID,
		BrandID:       l.BrandID,
		CountryID:     a.CountryID,
		ArticleNumber: l.ArticleNumber,
		Name:          l.Name,
	}
}

// Validate implements entity.Validatable. Call after Normalize.
func (l *ArrivalLine) Validate(ctx context.Context) error {
	if l.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if utf8.RuneCountInString(l.Name) > 100 {
		return apperror.NewValidation("name is too long").
			WithDetail("field", "name").
			WithDetail("max", 100)
	}
	if utf8.RuneCountInString(l.ArticleNumber) > 50 {
		return apperror.NewValidation("article number is too long").
			WithDetail("field", "articleNumber").
			WithDetail("max", 50)
	}
	if id.IsNil(l.BrandID) {
		return apperror.NewValidation("brand is required").WithDetail("field", "brandId")
	}
	if l.Quantity < 0 {
		return apperror.NewValidation("quantity must not be negative").WithDetail("field", "quantity")
	}
	if err := types.ValidatePrice("cost price", l.CostPrice); err != nil {
		return apperror.NewValidation(err.Error()).WithDetail("field", "costPrice")
	}
	if utf8.RuneCountInString(l.SuitsFor) > 200 {
		return apperror.NewValidation("suits for is too long").
			WithDetail("field", "suitsFor").
			WithDetail("max", 200)
	}
	return nil
}
