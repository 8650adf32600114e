package memory

import (
	"context"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/domain/catalogs/currency"
)

// RateRepo implements currency.Repository.
type RateRepo struct {
	catalogRepo[currency.Rate, *currency.Rate]
}

// NewRateRepo creates the currency rate repository.
func NewRateRepo(s *Store) *RateRepo {
	return &RateRepo{catalogRepo[currency.Rate, *currency.Rate]{
		store:  s,
		entity: "currency rate",
		rows:   func(s *Store) map[id.ID]currency.Rate { return s.rates },
	}}
}

func (r *RateRepo) FindByCode(ctx context.Context, code string) (*currency.Rate, error) {
	var out *currency.Rate
	err := r.store.read(ctx, func() error {
		for _, rate := range r.store.rates {
			if rate.Code == code {
				out = &rate
				return nil
			}
		}
		return apperror.NewNotFound("currency rate", code)
	})
	return out, err
}

func (r *RateRepo) FindSelected(ctx context.Context) (*currency.Rate, error) {
	var out *currency.Rate
	err := r.store.read(ctx, func() error {
		for _, rate := range r.store.rates {
			if rate.Selected {
				out = &rate
				return nil
			}
		}
		return apperror.NewNotFound("currency rate", "selected")
	})
	return out, err
}

// LockSelection is a no-op: the transaction already holds the store lock.
func (r *RateRepo) LockSelection(ctx context.Context) error {
	return nil
}

func (r *RateRepo) SetSelected(ctx context.Context, rateID id.ID) error {
	return r.store.write(ctx, func() error {
		if !id.IsNil(rateID) {
			if _, ok := r.store.rates[rateID]; !ok {
				return notFound("currency rate", rateID)
			}
		}
		for rid, rate := range r.store.rates {
			rate.Selected = rid == rateID
			r.store.rates[rid] = rate
		}
		return nil
	})
}
