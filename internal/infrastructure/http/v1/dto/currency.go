package dto

import (
	"time"

	"autoparts/internal/core/types"
	"autoparts/internal/domain/catalogs/currency"
)

// RateRequest is the request body for creating or updating a currency rate.
type RateRequest struct {
	CurrencyCode string      `json:"currencyCode" binding:"required"`
	RateToUSD    types.Money `json:"rateToUsd"`
	Selected     bool        `json:"selected"`
	Version      int         `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r RateRequest) ToEntity() *currency.Rate {
	rate := currency.NewRate(r.CurrencyCode, r.RateToUSD)
	rate.Selected = r.Selected
	return rate
}

// ApplyTo applies update DTO to existing entity.
func (r RateRequest) ApplyTo(rate *currency.Rate) *currency.Rate {
	rate.Code = currency.NormalizeCode(r.CurrencyCode)
	rate.RateToUSD = r.RateToUSD
	rate.Selected = r.Selected
	setVersion(&rate.BaseEntity, r.Version)
	return rate
}

// SelectCurrencyRequest picks the display currency. "USD" clears the selection.
type SelectCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required"`
}

// RateResponse is the response body for a currency rate.
type RateResponse struct {
	BaseResponse
	CurrencyCode string      `json:"currencyCode"`
	RateToUSD    types.Money `json:"rateToUsd"`
	Selected     bool        `json:"selected"`
	LastUpdated  time.Time   `json:"lastUpdated"`
}

// FromRate converts entity to response DTO.
func FromRate(r *currency.Rate) RateResponse {
	return RateResponse{
		BaseResponse: FromBase(r.BaseEntity),
		CurrencyCode: r.Code,
		RateToUSD:    r.RateToUSD,
		Selected:     r.Selected,
		LastUpdated:  r.LastUpdated,
	}
}

// SelectedCurrencyResponse reports the display currency after a selection.
type SelectedCurrencyResponse struct {
	CurrencyCode string        `json:"currencyCode"`
	Rate         *RateResponse `json:"rate,omitempty"`
}
