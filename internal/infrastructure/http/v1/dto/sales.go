package dto

import (
	"time"

	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain/catalogs/currency"
	"autoparts/internal/domain/sales"
)

// --- Sale ---

// SaleItemRequest is one item of a sale.
type SaleItemRequest struct {
	ProductID id.ID       `json:"productId"`
	Quantity  int64       `json:"quantity" binding:"min=0"`
	SalePrice types.Money `json:"salePrice"`
}

// ToEntity converts DTO to a new item.
func (r SaleItemRequest) ToEntity() *sales.SaleItem {
	return sales.NewSaleItem(r.ProductID, r.Quantity, r.SalePrice)
}

// CreateSaleRequest is the request body for creating a sale.
// The sale date is always the time of creation.
type CreateSaleRequest struct {
	ClientID id.ID             `json:"clientId"`
	Items    []SaleItemRequest `json:"items" binding:"dive"`
}

// ToEntity converts DTO to domain entity.
func (r CreateSaleRequest) ToEntity() *sales.Sale {
	s := sales.NewSale(r.ClientID)
	for _, it := range r.Items {
		s.Items = append(s.Items, *it.ToEntity())
	}
	return s
}

// ReassignClientRequest moves a sale to another client.
type ReassignClientRequest struct {
	ClientID id.ID `json:"clientId"`
}

// SaleItemResponse is one item of a sale response.
type SaleItemResponse struct {
	ID        string      `json:"id"`
	ProductID string      `json:"productId"`
	Quantity  int64       `json:"quantity"`
	SalePrice types.Money `json:"salePrice"`
	TotalCost types.Money `json:"totalCost"`
}

// FromSaleItem converts an item to response DTO.
func FromSaleItem(it *sales.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		ID:        it.ID.String(),
		ProductID: it.ProductID.String(),
		Quantity:  it.Quantity,
		SalePrice: it.SalePrice,
		TotalCost: it.TotalCost(),
	}
}

// SaleResponse is the response body for a sale. TotalDisplay renders the
// total in the selected display currency.
type SaleResponse struct {
	BaseResponse
	ClientID     string             `json:"clientId"`
	SaleDate     time.Time          `json:"saleDate"`
	Items        []SaleItemResponse `json:"items"`
	TotalAmount  types.Money        `json:"totalAmount"`
	TotalDisplay string             `json:"totalDisplay"`
}

// FromSale converts entity to response DTO. display may be nil (USD).
func FromSale(s *sales.Sale, display *currency.Rate) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i := range s.Items {
		items[i] = FromSaleItem(&s.Items[i])
	}
	total := s.TotalAmount()
	return SaleResponse{
		BaseResponse: FromBase(s.BaseEntity),
		ClientID:     s.ClientID.String(),
		SaleDate:     s.SaleDate,
		Items:        items,
		TotalAmount:  total,
		TotalDisplay: currency.Format(total, display),
	}
}

// --- Payment ---

// CreatePaymentRequest is the request body for recording a payment.
type CreatePaymentRequest struct {
	ClientID    id.ID       `json:"clientId"`
	Amount      types.Money `json:"amount"`
	PaymentDate *time.Time  `json:"paymentDate"`
	Comment     string      `json:"comment"`
}

// ToEntity converts DTO to domain entity. The date defaults to now.
func (r CreatePaymentRequest) ToEntity() *sales.Payment {
	p := sales.NewPayment(r.ClientID, r.Amount)
	if r.PaymentDate != nil {
		p.PaymentDate = r.PaymentDate.UTC()
	}
	p.Comment = r.Comment
	return p
}

// PaymentResponse is the response body for a payment.
type PaymentResponse struct {
	ID          string      `json:"id"`
	ClientID    string      `json:"clientId"`
	Amount      types.Money `json:"amount"`
	PaymentDate time.Time   `json:"paymentDate"`
	Comment     string      `json:"comment,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// FromPayment converts entity to response DTO.
func FromPayment(p *sales.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID.String(),
		ClientID:    p.ClientID.String(),
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Comment:     p.Comment,
		CreatedAt:   p.CreatedAt,
	}
}
