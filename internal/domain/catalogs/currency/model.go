// Package currency provides the currency rate catalog used to show USD
// amounts in a display currency.
package currency

import (
	"context"
	"regexp"
	"strings"
	"time"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/entity"
	"autoparts/internal/core/types"
)

// BaseCode is the currency all stored amounts are in.
const BaseCode = "USD"

var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Rate is the value of one unit of a currency in USD. At most one rate is
// selected; the selected rate is the display currency.
type Rate struct {
	entity.BaseEntity

	// Code is the ISO 4217 alphabetic code, unique
	Code string `db:"currency_code" json:"currencyCode"`

	RateToUSD   types.Money `db:"rate_to_usd" json:"rateToUsd"`
	Selected    bool        `db:"selected" json:"selected"`
	LastUpdated time.Time   `db:"last_updated" json:"lastUpdated"`
}

// NewRate creates an unselected rate.
func NewRate(code string, rateToUSD types.Money) *Rate {
	base := entity.NewBaseEntity()
	return &Rate{
		BaseEntity:  base,
		Code:        NormalizeCode(code),
		RateToUSD:   rateToUSD,
		LastUpdated: base.CreatedAt,
	}
}

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetName returns the display name.
func (r *Rate) GetName() string {
	return r.Code
}

// Validate implements entity.Validatable interface.
func (r *Rate) Validate(ctx context.Context) error {
	if !codePattern.MatchString(r.Code) {
		return apperror.NewValidation("currency code must be 3 letters").
			WithDetail("field", "currencyCode").
			WithDetail("value", r.Code)
	}
	if !r.RateToUSD.IsPositive() {
		return apperror.NewValidation("rate must be positive").
			WithDetail("field", "rateToUsd")
	}
	return nil
}

// FromUSD converts a USD amount into this currency, rounded to cents
// with banker's rounding.
func (r *Rate) FromUSD(amount types.Money) types.Money {
	return amount.Div(r.RateToUSD).RoundBank(2)
}

// Format renders a USD amount in the selected currency, or in USD when
// nothing is selected.
func Format(amount types.Money, selected *Rate) string {
	if selected == nil {
		return amount.StringFixed(2) + " " + BaseCode
	}
	return selected.FromUSD(amount).StringFixed(2) + " " + selected.Code
}
