package inventory

import (
	"autoparts/internal/core/types"
)

// LineState is the part of an arrival line that drives stock, resolved
// against its parent arrival. A nil *LineState means "no line".
type LineState struct {
	Identity  Identity
	Quantity  int64
	CostPrice types.Money
	SuitsFor  string
}

// State captures the stock-relevant view of l under arrival a.
func (l *ArrivalLine) State(a *Arrival) *LineState {
	return &LineState{
		Identity:  l.Identity(a),
		Quantity:  l.Quantity,
		CostPrice: l.CostPrice,
		SuitsFor:  l.SuitsFor,
	}
}

// StockMove is one planned change to a product row.
type StockMove struct {
	Identity Identity
	Delta    int64

	// CostPrice, when set, overwrites the product's cost price.
	CostPrice *types.Money

	// SuitsFor seeds a product created by this move.
	SuitsFor string

	// Create allows the move to create the product when no row matches.
	// Moves without it are dropped when the product is missing.
	Create bool
}

// PlanArrivalLine computes the product moves for replacing old with next.
// old is nil on create, next is nil on delete. An identity change yields the
// withdrawal from the old product followed by the booking on the new one.
func PlanArrivalLine(old, next *LineState) []StockMove {
	var moves []StockMove

	switch {
	case old == nil && next == nil:
		return nil

	case old == nil:
		moves = append(moves, addMove(next, next.Quantity))

	case next == nil:
		moves = append(moves, StockMove{
			Identity: old.Identity,
			Delta:    -old.Quantity,
		})

	case old.Identity == next.Identity:
		moves = append(moves, addMove(next, next.Quantity-old.Quantity))

	default:
		// The line now names a different product: withdraw everything it
		// contributed to the old one and book the full quantity on the new.
		moves = append(moves,
			StockMove{Identity: old.Identity, Delta: -old.Quantity},
			addMove(next, next.Quantity),
		)
	}
	return moves
}

func addMove(next *LineState, delta int64) StockMove {
	return StockMove{
		Identity:  next.Identity,
		Delta:     delta,
		CostPrice: types.MoneyPtr(next.CostPrice),
		SuitsFor:  next.SuitsFor,
		Create:    true,
	}
}

// ApplyQuantity adds delta to current, flooring the result at zero.
// clamped reports whether the floor was hit.
func ApplyQuantity(current, delta int64) (next int64, clamped bool) {
	next = current + delta
	if next < 0 {
		return 0, true
	}
	return next, false
}
