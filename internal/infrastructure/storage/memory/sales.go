package memory

import (
	"cmp"
	"context"
	"slices"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/domain"
	"autoparts/internal/domain/sales"
)

// SaleRepo implements sales.SaleRepository.
type SaleRepo struct {
	store *Store
}

// NewSaleRepo creates the sale repository.
func NewSaleRepo(s *Store) *SaleRepo {
	return &SaleRepo{store: s}
}

func (r *SaleRepo) Create(ctx context.Context, s *sales.Sale) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.clients[s.ClientID]; !ok {
			return apperror.NewReferenceIntegrity("client", s.ClientID.String())
		}
		if _, ok := r.store.sales[s.ID]; ok {
			return duplicateID("sale", s.ID)
		}
		row := *s
		row.Items = nil
		r.store.sales[s.ID] = row
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	var out *sales.Sale
	err := r.store.read(ctx, func() error {
		s, ok := r.store.sales[saleID]
		if !ok {
			return notFound("sale", saleID)
		}
		s.Items = make([]sales.SaleItem, 0)
		out = &s
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	return r.GetByID(ctx, saleID)
}

func (r *SaleRepo) SetClient(ctx context.Context, saleID, clientID id.ID) error {
	return r.store.write(ctx, func() error {
		s, ok := r.store.sales[saleID]
		if !ok {
			return notFound("sale", saleID)
		}
		if _, ok := r.store.clients[clientID]; !ok {
			return notFound("client", clientID)
		}
		s.ClientID = clientID
		s.Version++
		r.store.sales[saleID] = s
		return nil
	})
}

func (r *SaleRepo) Delete(ctx context.Context, saleID id.ID) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.sales[saleID]; !ok {
			return notFound("sale", saleID)
		}
		if anyRow(r.store.saleItems, func(it sales.SaleItem) bool { return it.SaleID == saleID }) {
			return apperror.NewReferenceIntegrity("sale", saleID.String())
		}
		delete(r.store.sales, saleID)
		return nil
	})
}

func (r *SaleRepo) List(ctx context.Context, filter sales.SaleFilter) (domain.ListResult[*sales.Sale], error) {
	var res domain.ListResult[*sales.Sale]
	err := r.store.read(ctx, func() error {
		items := make([]*sales.Sale, 0)
		for _, s := range r.store.sales {
			switch {
			case filter.ClientID != nil && s.ClientID != *filter.ClientID,
				filter.DateFrom != nil && s.SaleDate.Before(*filter.DateFrom),
				filter.DateTo != nil && !s.SaleDate.Before(*filter.DateTo):
				continue
			}
			items = append(items, &s)
		}
		slices.SortFunc(items, func(a, b *sales.Sale) int {
			return cmp.Or(b.SaleDate.Compare(a.SaleDate), id.Compare(b.ID, a.ID))
		})
		res = page(items, filter.Limit, filter.Offset)
		return nil
	})
	return res, err
}

func (r *SaleRepo) CountItems(ctx context.Context, saleID id.ID) (int, error) {
	var n int
	err := r.store.read(ctx, func() error {
		for _, it := range r.store.saleItems {
			if it.SaleID == saleID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *SaleRepo) ListItems(ctx context.Context, saleIDs ...id.ID) ([]sales.SaleItem, error) {
	out := make([]sales.SaleItem, 0)
	err := r.store.read(ctx, func() error {
		for _, it := range r.store.saleItems {
			if slices.Contains(saleIDs, it.SaleID) {
				out = append(out, it)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b sales.SaleItem) int { return id.Compare(a.ID, b.ID) })
	return out, err
}

func (r *SaleRepo) CreateItem(ctx context.Context, item *sales.SaleItem) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.sales[item.SaleID]; !ok {
			return apperror.NewReferenceIntegrity("sale", item.SaleID.String())
		}
		if _, ok := r.store.products[item.ProductID]; !ok {
			return apperror.NewReferenceIntegrity("product", item.ProductID.String())
		}
		if _, ok := r.store.saleItems[item.ID]; ok {
			return duplicateID("sale item", item.ID)
		}
		r.store.saleItems[item.ID] = *item
		return nil
	})
}

func (r *SaleRepo) GetItemForUpdate(ctx context.Context, itemID id.ID) (*sales.SaleItem, error) {
	var out *sales.SaleItem
	err := r.store.read(ctx, func() error {
		it, ok := r.store.saleItems[itemID]
		if !ok {
			return notFound("sale item", itemID)
		}
		out = &it
		return nil
	})
	return out, err
}

func (r *SaleRepo) UpdateItem(ctx context.Context, item *sales.SaleItem) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.saleItems[item.ID]; !ok {
			return notFound("sale item", item.ID)
		}
		item.Version++
		r.store.saleItems[item.ID] = *item
		return nil
	})
}

func (r *SaleRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.saleItems[itemID]; !ok {
			return notFound("sale item", itemID)
		}
		delete(r.store.saleItems, itemID)
		return nil
	})
}

// PaymentRepo implements sales.PaymentRepository.
type PaymentRepo struct {
	store *Store
}

// NewPaymentRepo creates the payment repository.
func NewPaymentRepo(s *Store) *PaymentRepo {
	return &PaymentRepo{store: s}
}

func (r *PaymentRepo) Create(ctx context.Context, p *sales.Payment) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.clients[p.ClientID]; !ok {
			return apperror.NewReferenceIntegrity("client", p.ClientID.String())
		}
		if _, ok := r.store.payments[p.ID]; ok {
			return duplicateID("payment", p.ID)
		}
		r.store.payments[p.ID] = *p
		return nil
	})
}

func (r *PaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (*sales.Payment, error) {
	var out *sales.Payment
	err := r.store.read(ctx, func() error {
		p, ok := r.store.payments[paymentID]
		if !ok {
			return notFound("payment", paymentID)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *PaymentRepo) GetForUpdate(ctx context.Context, paymentID id.ID) (*sales.Payment, error) {
	return r.GetByID(ctx, paymentID)
}

func (r *PaymentRepo) Delete(ctx context.Context, paymentID id.ID) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.payments[paymentID]; !ok {
			return notFound("payment", paymentID)
		}
		delete(r.store.payments, paymentID)
		return nil
	})
}

func (r *PaymentRepo) List(ctx context.Context, filter sales.PaymentFilter) (domain.ListResult[*sales.Payment], error) {
	var res domain.ListResult[*sales.Payment]
	err := r.store.read(ctx, func() error {
		items := make([]*sales.Payment, 0)
		for _, p := range r.store.payments {
			switch {
			case filter.ClientID != nil && p.ClientID != *filter.ClientID,
				filter.DateFrom != nil && p.PaymentDate.Before(*filter.DateFrom),
				filter.DateTo != nil && !p.PaymentDate.Before(*filter.DateTo):
				continue
			}
			items = append(items, &p)
		}
		slices.SortFunc(items, func(a, b *sales.Payment) int {
			return cmp.Or(b.PaymentDate.Compare(a.PaymentDate), id.Compare(b.ID, a.ID))
		})
		res = page(items, filter.Limit, filter.Offset)
		return nil
	})
	return res, err
}
