// Package sales provides sales, their items and client payments, and keeps
// product stock and client balances in step with them.
package sales

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/entity"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
)

// Sale is a sale to one client. Its date is fixed when it is created.
type Sale struct {
	entity.BaseEntity

	ClientID id.ID     `db:"client_id" json:"clientId"`
	SaleDate time.Time `db:"sale_date" json:"saleDate"`

	// Table part
	Items []SaleItem `db:"-" json:"items"`
}

// NewSale creates a sale dated now.
func NewSale(clientID id.ID) *Sale {
	base := entity.NewBaseEntity()
	return &Sale{
		BaseEntity: base,
		ClientID:   clientID,
		SaleDate:   base.CreatedAt,
		Items:      make([]SaleItem, 0),
	}
}

// TotalAmount is the sum of item totals. Derived on every read.
func (s *Sale) TotalAmount() types.Money {
	total := types.Zero()
	for i := range s.Items {
		total = total.Add(s.Items[i].TotalCost())
	}
	return total
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if id.IsNil(s.ClientID) {
		return apperror.NewValidation("client is required").WithDetail("field", "clientId")
	}
	return nil
}

// SaleItem is one product line of a sale.
type SaleItem struct {
	entity.BaseEntity

	SaleID    id.ID       `db:"sale_id" json:"saleId"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	SalePrice types.Money `db:"sale_price" json:"salePrice"`
}

// NewSaleItem creates an item with a fresh ID.
func NewSaleItem(productID id.ID, quantity int64, salePrice types.Money) *SaleItem {
	return &SaleItem{
		BaseEntity: entity.NewBaseEntity(),
		ProductID:  productID,
		Quantity:   quantity,
		SalePrice:  salePrice,
	}
}

// TotalCost is quantity × sale price.
func (i *SaleItem) TotalCost() types.Money {
	return types.LineTotal(i.Quantity, i.SalePrice)
}

// Validate implements entity.Validatable.
func (i *SaleItem) Validate(ctx context.Context) error {
	if id.IsNil(i.ProductID) {
		return apperror.NewValidation("product is required").WithDetail("field", "productId")
	}
	if i.Quantity < 0 {
		return apperror.NewValidation("quantity must not be negative").WithDetail("field", "quantity")
	}
	if err := types.ValidatePrice("sale price", i.SalePrice); err != nil {
		return apperror.NewValidation(err.Error()).WithDetail("field", "salePrice")
	}
	return nil
}

// Payment is money received from a client. Payments are created and
// deleted, never edited.
type Payment struct {
	ID          id.ID       `db:"id" json:"id"`
	ClientID    id.ID       `db:"client_id" json:"clientId"`
	Amount      types.Money `db:"amount" json:"amount"`
	PaymentDate time.Time   `db:"payment_date" json:"paymentDate"`
	Comment     string      `db:"comment" json:"comment,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// NewPayment creates a payment dated now.
func NewPayment(clientID id.ID, amount types.Money) *Payment {
	now := time.Now().UTC()
	return &Payment{
		ID:          id.New(),
		ClientID:    clientID,
		Amount:      amount,
		PaymentDate: now,
		CreatedAt:   now,
	}
}

// Validate implements entity.Validatable.
func (p *Payment) Validate(ctx context.Context) error {
	if id.IsNil(p.ClientID) {
		return apperror.NewValidation("client is required").WithDetail("field", "clientId")
	}
	if !p.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}
	if !types.HasCents(p.Amount) {
		return apperror.NewValidation("amount must have at most 2 decimal places").WithDetail("field", "amount")
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.Comment)) > 500 {
		return apperror.NewValidation("comment is too long").
			WithDetail("field", "comment").
			WithDetail("max", 500)
	}
	return nil
}
