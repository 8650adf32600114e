package sales

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/tx"
	"autoparts/internal/core/types"
	"autoparts/internal/domain"
	"autoparts/internal/domain/adjustment"
	"autoparts/internal/domain/inventory"
	"autoparts/pkg/logger"
)

var tracer = otel.Tracer("autoparts/reconcile")

// SaleService manages sales and keeps stock and client balances in step with
// sale items. Locks are taken sale first, then products by id, then clients.
type SaleService struct {
	sales     SaleRepository
	stock     Stock
	balances  Balances
	txManager tx.Manager
	journal   *adjustment.Journal
}

// NewSaleService creates a new sale service.
func NewSaleService(
	sales SaleRepository,
	stock Stock,
	balances Balances,
	txManager tx.Manager,
	journal *adjustment.Journal,
) *SaleService {
	return &SaleService{
		sales:     sales,
		stock:     stock,
		balances:  balances,
		txManager: txManager,
		journal:   journal,
	}
}

// Create stores a sale header together with any items it carries.
func (s *SaleService) Create(ctx context.Context, sale *Sale) error {
	if err := sale.Validate(ctx); err != nil {
		return err
	}
	items := sale.Items
	for i := range items {
		if err := items[i].Validate(ctx); err != nil {
			return err
		}
	}

	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		events = nil
		// Lock every product up front so the client lock taken per item
		// still comes after all product locks.
		pids := make([]id.ID, 0, len(items))
		for i := range items {
			pids = append(pids, items[i].ProductID)
		}
		for _, pid := range id.SortedUnique(pids...) {
			if _, err := s.stock.GetForUpdate(ctx, pid); err != nil {
				return err
			}
		}
		if _, err := s.balances.GetForUpdate(ctx, sale.ClientID); err != nil {
			return err
		}
		if err := s.sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		for i := range items {
			item := &items[i]
			item.SaleID = sale.ID
			ev, err := s.post(ctx, sale, nil, item.State(), item.ID, adjustment.ActionCreate, func(ctx context.Context) error {
				return s.sales.CreateItem(ctx, item)
			})
			if err != nil {
				return err
			}
			events = append(events, ev...)
		}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	logger.Info(ctx, "sale created", "id", sale.ID, "client_id", sale.ClientID, "items", len(items))
	return nil
}

// GetByID returns a sale with its items.
func (s *SaleService) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	items, err := s.sales.ListItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	sale.Items = items
	return sale, nil
}

// List returns sales with their items, so totals can be derived.
func (s *SaleService) List(ctx context.Context, filter SaleFilter) (domain.ListResult[*Sale], error) {
	filter.Normalize()
	res, err := s.sales.List(ctx, filter)
	if err != nil || len(res.Items) == 0 {
		return res, err
	}

	ids := make([]id.ID, len(res.Items))
	byID := make(map[id.ID]*Sale, len(res.Items))
	for i, sale := range res.Items {
		ids[i] = sale.ID
		sale.Items = make([]SaleItem, 0)
		byID[sale.ID] = sale
	}
	items, err := s.sales.ListItems(ctx, ids...)
	if err != nil {
		return res, fmt.Errorf("get items: %w", err)
	}
	for _, it := range items {
		if sale, ok := byID[it.SaleID]; ok {
			sale.Items = append(sale.Items, it)
		}
	}
	return res, nil
}

// Delete removes a sale without items.
func (s *SaleService) Delete(ctx context.Context, saleID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.sales.GetForUpdate(ctx, saleID); err != nil {
			return err
		}
		n, err := s.sales.CountItems(ctx, saleID)
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		if n > 0 {
			return apperror.NewReferenceIntegrity("sale", saleID.String()).WithDetail("items", n)
		}
		return s.sales.Delete(ctx, saleID)
	})
}

// ReassignClient moves a sale, and the amount it charges, to another client.
func (s *SaleService) ReassignClient(ctx context.Context, saleID, clientID id.ID) (*Sale, error) {
	if id.IsNil(clientID) {
		return nil, apperror.NewValidation("client is required").WithDetail("field", "clientId")
	}

	var (
		sale   *Sale
		events []adjustment.Event
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		items, err := s.sales.ListItems(ctx, saleID)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		sale.Items = items
		if sale.ClientID == clientID {
			return nil
		}

		total := sale.TotalAmount()
		deltas := map[id.ID]types.Money{
			sale.ClientID: total.Neg(),
			clientID:      total,
		}
		events = make([]adjustment.Event, 0, 2)
		for _, cid := range id.SortedUnique(sale.ClientID, clientID) {
			c, err := s.balances.GetForUpdate(ctx, cid)
			if err != nil {
				return err
			}
			delta := deltas[cid]
			if err := s.balances.SetBalance(ctx, cid, c.Balance.Add(delta)); err != nil {
				return fmt.Errorf("set balance: %w", err)
			}
			events = append(events, adjustment.BalanceChange(
				cid, adjustment.SourceSale, saleID, adjustment.ActionReassign, c.Balance, delta))
		}

		if err := s.sales.SetClient(ctx, saleID, clientID); err != nil {
			return fmt.Errorf("set sale client: %w", err)
		}
		sale.ClientID = clientID
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return nil, err
	}

	s.journal.Publish(ctx, events)
	return sale, nil
}

// AddItem stores a new item, taking its quantity from stock and charging the client.
func (s *SaleService) AddItem(ctx context.Context, saleID id.ID, item *SaleItem) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		item.SaleID = sale.ID
		events, err = s.post(ctx, sale, nil, item.State(), item.ID, adjustment.ActionCreate, func(ctx context.Context) error {
			return s.sales.CreateItem(ctx, item)
		})
		if err != nil {
			return err
		}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	return nil
}

// UpdateItem replaces an item and settles the quantity and amount differences.
func (s *SaleService) UpdateItem(ctx context.Context, saleID id.ID, item *SaleItem) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		old, err := s.lockItem(ctx, saleID, item.ID)
		if err != nil {
			return err
		}
		item.SaleID = saleID
		item.CreatedAt = old.CreatedAt
		item.Version = old.Version
		item.Touch()
		events, err = s.post(ctx, sale, old.State(), item.State(), item.ID, adjustment.ActionUpdate, func(ctx context.Context) error {
			return s.sales.UpdateItem(ctx, item)
		})
		if err != nil {
			return err
		}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	return nil
}

// DeleteItem removes an item, returning its quantity to stock and crediting the client.
func (s *SaleService) DeleteItem(ctx context.Context, saleID, itemID id.ID) error {
	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		old, err := s.lockItem(ctx, saleID, itemID)
		if err != nil {
			return err
		}
		events, err = s.post(ctx, sale, old.State(), nil, itemID, adjustment.ActionDelete, func(ctx context.Context) error {
			return s.sales.DeleteItem(ctx, itemID)
		})
		if err != nil {
			return err
		}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	return nil
}

func (s *SaleService) lockItem(ctx context.Context, saleID, itemID id.ID) (*SaleItem, error) {
	old, err := s.sales.GetItemForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if old.SaleID != saleID {
		return nil, apperror.NewNotFound("sale item", itemID.String())
	}
	return old, nil
}

// post locks the touched products and client, checks stock, runs write and
// then applies the plan. Nothing is written when the stock check fails.
func (s *SaleService) post(
	ctx context.Context,
	sale *Sale,
	old, next *ItemState,
	itemID id.ID,
	action adjustment.Action,
	write func(ctx context.Context) error,
) ([]adjustment.Event, error) {
	ctx, span := tracer.Start(ctx, "reconcile.sale_item",
		trace.WithAttributes(
			attribute.String("item.id", itemID.String()),
			attribute.String("item.action", string(action)),
		))
	defer span.End()

	plan := PlanSaleItem(old, next)

	products := make(map[id.ID]*inventory.Product, len(plan.Takes))
	for _, pid := range plan.ProductIDs() {
		p, err := s.stock.GetForUpdate(ctx, pid)
		if err != nil {
			return nil, err
		}
		products[pid] = p
	}

	for _, t := range plan.Takes {
		p := products[t.ProductID]
		if err := CheckStock(p.ID, p.Quantity, t.Take); err != nil {
			s.journal.Rejected(ctx, apperror.CodeInsufficientStock,
				"product_id", p.ID, "requested", t.Take, "available", p.Quantity, "sale_id", sale.ID)
			return nil, err
		}
	}

	c, err := s.balances.GetForUpdate(ctx, sale.ClientID)
	if err != nil {
		return nil, err
	}

	if err := write(ctx); err != nil {
		return nil, fmt.Errorf("write sale item: %w", err)
	}

	events := make([]adjustment.Event, 0, len(plan.Takes)+1)
	for _, t := range plan.Takes {
		if t.Take == 0 {
			continue
		}
		p := products[t.ProductID]
		before := p.Quantity
		after, clamped := inventory.ApplyQuantity(before, -t.Take)
		p.Quantity = after
		p.Touch()
		if err := s.stock.SaveStock(ctx, p); err != nil {
			return nil, fmt.Errorf("save product stock: %w", err)
		}
		events = append(events, adjustment.StockChange(
			p.ID, adjustment.SourceSaleItem, itemID, action, before, -t.Take, after, clamped))
	}

	if !plan.BalanceDelta.IsZero() {
		if err := s.balances.SetBalance(ctx, c.ID, c.Balance.Add(plan.BalanceDelta)); err != nil {
			return nil, fmt.Errorf("set balance: %w", err)
		}
		events = append(events, adjustment.BalanceChange(
			c.ID, adjustment.SourceSaleItem, itemID, action, c.Balance, plan.BalanceDelta))
	}

	span.SetAttributes(attribute.Int("reconcile.adjustments", len(events)))
	return events, nil
}
