package sales

import (
	"context"
	"time"

	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/inventory"
)

// SaleRepository defines persistence for sale headers and items.
type SaleRepository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, id id.ID) (*Sale, error)
	GetForUpdate(ctx context.Context, id id.ID) (*Sale, error)

	// SetClient moves the sale to another client.
	SetClient(ctx context.Context, saleID, clientID id.ID) error

	// Delete removes the header. Fails with ReferenceIntegrity while items exist.
	Delete(ctx context.Context, id id.ID) error

	List(ctx context.Context, filter SaleFilter) (domain.ListResult[*Sale], error)

	// Item operations

	CountItems(ctx context.Context, saleID id.ID) (int, error)
	ListItems(ctx context.Context, saleIDs ...id.ID) ([]SaleItem, error)
	CreateItem(ctx context.Context, item *SaleItem) error
	GetItemForUpdate(ctx context.Context, itemID id.ID) (*SaleItem, error)
	UpdateItem(ctx context.Context, item *SaleItem) error
	DeleteItem(ctx context.Context, itemID id.ID) error
}

// SaleFilter narrows sale listings.
type SaleFilter struct {
	domain.ListFilter

	ClientID *id.ID

	// DateFrom is inclusive, DateTo exclusive.
	DateFrom *time.Time
	DateTo   *time.Time
}

// PaymentRepository defines persistence for payments. There is no update.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id id.ID) (*Payment, error)
	GetForUpdate(ctx context.Context, id id.ID) (*Payment, error)
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter PaymentFilter) (domain.ListResult[*Payment], error)
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	domain.ListFilter

	ClientID *id.ID

	// DateFrom is inclusive, DateTo exclusive.
	DateFrom *time.Time
	DateTo   *time.Time
}

// Stock is the product access the ledger needs.
type Stock interface {
	GetForUpdate(ctx context.Context, id id.ID) (*inventory.Product, error)
	SaveStock(ctx context.Context, p *inventory.Product) error
}

// Balances is the client access the ledger needs.
type Balances interface {
	GetForUpdate(ctx context.Context, id id.ID) (*client.Client, error)
	SetBalance(ctx context.Context, id id.ID, balance types.Money) error
}
