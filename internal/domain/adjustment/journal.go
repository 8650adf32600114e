// Package adjustment records every change the reconciler makes to a product
// quantity or a client balance, so clamped or surprising numbers can be traced
// back to the line that caused them.
package adjustment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	appctx "autoparts/internal/core/context"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/pkg/logger"
)

// Aggregate names the kind of row that was adjusted.
type Aggregate string

const (
	AggregateProduct Aggregate = "product"
	AggregateClient  Aggregate = "client"
)

// Source names the kind of line whose write caused the adjustment.
type Source string

const (
	SourceArrivalLine Source = "arrival_line"
	SourceSaleItem    Source = "sale_item"
	SourceSale        Source = "sale"
	SourcePayment     Source = "payment"
)

// Action is the write performed on the source line.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionReassign Action = "reassign"
)

// Event is one applied change. Quantities are stored as whole decimals so
// stock and money share a column type.
type Event struct {
	ID          id.ID           `db:"id" json:"id"`
	Aggregate   Aggregate       `db:"aggregate" json:"aggregate"`
	AggregateID id.ID           `db:"aggregate_id" json:"aggregateId"`
	Source      Source          `db:"source" json:"source"`
	SourceID    id.ID           `db:"source_id" json:"sourceId"`
	Action      Action          `db:"action" json:"action"`
	Before      decimal.Decimal `db:"before_value" json:"before"`
	Delta       decimal.Decimal `db:"delta" json:"delta"`
	After       decimal.Decimal `db:"after_value" json:"after"`
	Clamped     bool            `db:"clamped" json:"clamped"`
	UserID      string          `db:"user_id" json:"userId,omitempty"`
	Details     map[string]any  `db:"-" json:"details,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// StockChange builds the event for a product quantity move.
func StockChange(productID id.ID, source Source, sourceID id.ID, action Action, before, delta, after int64, clamped bool) Event {
	return Event{
		Aggregate:   AggregateProduct,
		AggregateID: productID,
		Source:      source,
		SourceID:    sourceID,
		Action:      action,
		Before:      decimal.NewFromInt(before),
		Delta:       decimal.NewFromInt(delta),
		After:       decimal.NewFromInt(after),
		Clamped:     clamped,
	}
}

// BalanceChange builds the event for a client balance move.
func BalanceChange(clientID id.ID, source Source, sourceID id.ID, action Action, before, delta types.Money) Event {
	return Event{
		Aggregate:   AggregateClient,
		AggregateID: clientID,
		Source:      source,
		SourceID:    sourceID,
		Action:      action,
		Before:      before,
		Delta:       delta,
		After:       before.Add(delta),
	}
}

// Filter narrows a journal listing.
type Filter struct {
	Aggregate   Aggregate
	AggregateID *id.ID
	ClampedOnly bool
	Limit       int
}

// Store persists events. Append runs inside the caller's transaction.
type Store interface {
	Append(ctx context.Context, events []Event) error
	List(ctx context.Context, filter Filter) ([]Event, error)
}

// Observer is notified after the transaction that produced an event commits.
type Observer interface {
	ObserveAdjustment(e Event)
	ObserveRejection(reason string)
}

// Journal fans adjustments out to the store, the log and any observers.
type Journal struct {
	store     Store
	observers []Observer
}

// NewJournal creates a Journal.
func NewJournal(store Store, observers ...Observer) *Journal {
	return &Journal{store: store, observers: observers}
}

// Append stamps and stores events within the current transaction.
func (j *Journal) Append(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	now := time.Now().UTC()
	userID := appctx.GetUserID(ctx)
	for i := range events {
		if id.IsNil(events[i].ID) {
			events[i].ID = id.New()
		}
		if events[i].CreatedAt.IsZero() {
			events[i].CreatedAt = now
		}
		if events[i].UserID == "" {
			events[i].UserID = userID
		}
	}
	if err := j.store.Append(ctx, events); err != nil {
		return fmt.Errorf("append adjustments: %w", err)
	}
	return nil
}

// Publish logs committed events and notifies observers.
func (j *Journal) Publish(ctx context.Context, events []Event) {
	for _, e := range events {
		kv := []any{
			"aggregate", e.Aggregate,
			"aggregate_id", e.AggregateID,
			"source", e.Source,
			"source_id", e.SourceID,
			"action", e.Action,
			"before", e.Before.String(),
			"delta", e.Delta.String(),
			"after", e.After.String(),
		}
		if e.Clamped {
			logger.Warn(ctx, "stock clamped at zero", kv...)
		} else {
			logger.Debug(ctx, "aggregate adjusted", kv...)
		}
		for _, o := range j.observers {
			o.ObserveAdjustment(e)
		}
	}
}

// Rejected reports a write refused by a business rule.
func (j *Journal) Rejected(ctx context.Context, reason string, keysAndValues ...any) {
	logger.Info(ctx, "write rejected", append([]any{"reason", reason}, keysAndValues...)...)
	for _, o := range j.observers {
		o.ObserveRejection(reason)
	}
}

// List returns stored events, newest first.
func (j *Journal) List(ctx context.Context, filter Filter) ([]Event, error) {
	if filter.Limit <= 0 || filter.Limit > 1000 {
		filter.Limit = 100
	}
	return j.store.List(ctx, filter)
}
