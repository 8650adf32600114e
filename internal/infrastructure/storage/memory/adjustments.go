package memory

import (
	"context"
	"slices"

	"autoparts/internal/domain/adjustment"
)

// AdjustmentStore implements adjustment.Store.
type AdjustmentStore struct {
	store *Store
}

// NewAdjustmentStore creates the adjustment store.
func NewAdjustmentStore(s *Store) *AdjustmentStore {
	return &AdjustmentStore{store: s}
}

func (r *AdjustmentStore) Append(ctx context.Context, events []adjustment.Event) error {
	return r.store.write(ctx, func() error {
		r.store.adjustments = append(r.store.adjustments, events...)
		return nil
	})
}

// List returns matching events, newest first.
func (r *AdjustmentStore) List(ctx context.Context, filter adjustment.Filter) ([]adjustment.Event, error) {
	out := make([]adjustment.Event, 0)
	err := r.store.read(ctx, func() error {
		for _, e := range slices.Backward(r.store.adjustments) {
			switch {
			case filter.Aggregate != "" && e.Aggregate != filter.Aggregate,
				filter.AggregateID != nil && e.AggregateID != *filter.AggregateID,
				filter.ClampedOnly && !e.Clamped:
				continue
			}
			out = append(out, e)
			if filter.Limit > 0 && len(out) == filter.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}
