package sales

import (
	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
)

// ItemState is the part of a sale item that drives stock and balance.
// A nil *ItemState means "no item".
type ItemState struct {
	ProductID id.ID
	Quantity  int64
	SalePrice types.Money
}

// State captures the ledger-relevant view of i.
func (i *SaleItem) State() *ItemState {
	return &ItemState{ProductID: i.ProductID, Quantity: i.Quantity, SalePrice: i.SalePrice}
}

// StockTake is a planned stock change on one product. Positive Take removes
// units from stock, negative Take returns them.
type StockTake struct {
	ProductID id.ID
	Take      int64
}

// LedgerPlan is everything one sale-item write does to aggregates.
type LedgerPlan struct {
	Takes        []StockTake
	BalanceDelta types.Money
}

// ProductIDs returns the products the plan touches, in lock order.
func (p LedgerPlan) ProductIDs() []id.ID {
	ids := make([]id.ID, 0, len(p.Takes))
	for _, t := range p.Takes {
		ids = append(ids, t.ProductID)
	}
	return id.SortedUnique(ids...)
}

// PlanSaleItem computes the stock and balance changes for replacing old with
// next. old is nil on create, next is nil on delete.
func PlanSaleItem(old, next *ItemState) LedgerPlan {
	var plan LedgerPlan

	switch {
	case old == nil && next == nil:
		plan.BalanceDelta = types.Zero()

	case old == nil:
		plan.Takes = []StockTake{{ProductID: next.ProductID, Take: next.Quantity}}
		plan.BalanceDelta = types.LineTotal(next.Quantity, next.SalePrice)

	case next == nil:
		plan.Takes = []StockTake{{ProductID: old.ProductID, Take: -old.Quantity}}
		plan.BalanceDelta = types.LineTotal(old.Quantity, old.SalePrice).Neg()

	case old.ProductID == next.ProductID:
		plan.Takes = []StockTake{{ProductID: next.ProductID, Take: next.Quantity - old.Quantity}}
		plan.BalanceDelta = types.LineTotal(next.Quantity, next.SalePrice).
			Sub(types.LineTotal(old.Quantity, old.SalePrice))

	default:
		// Switching products returns everything to the old one and takes
		// the full quantity from the new one.
		plan.Takes = []StockTake{
			{ProductID: old.ProductID, Take: -old.Quantity},
			{ProductID: next.ProductID, Take: next.Quantity},
		}
		plan.BalanceDelta = types.LineTotal(next.Quantity, next.SalePrice).
			Sub(types.LineTotal(old.Quantity, old.SalePrice))
	}

	return plan
}

// CheckStock refuses a take larger than what the product holds.
// Returns and zero takes always pass.
func CheckStock(productID id.ID, available, take int64) error {
	if take > 0 && available < take {
		return apperror.NewInsufficientStock(productID.String(), take, available)
	}
	return nil
}
