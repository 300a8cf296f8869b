package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetCurrencyRateRequest sets the current rate of a currency against the base currency.
// Exactly one of Rate (stored form) or DisplayRate (base units per foreign unit) is given.
type SetCurrencyRateRequest struct {
	CurrencyCode string                  `json:"currencyCode" binding:"required,iso4217"`
	Operator     domain.ExchangeOperator `json:"operator" binding:"required,oneof=multiply divide"`
	Rate         *decimal.Decimal        `json:"rate"`
	DisplayRate  *decimal.Decimal        `json:"displayRate"`
	EffectiveAt  *time.Time              `json:"effectiveAt"`
}

// CurrencyRateResponse defines the structure for API responses containing a rate.
type CurrencyRateResponse struct {
	CurrencyCode  string                  `json:"currencyCode"`
	Operator      domain.ExchangeOperator `json:"operator"`
	Rate          decimal.Decimal         `json:"rate"`
	DisplayRate   decimal.Decimal         `json:"displayRate"`
	EffectiveAt   time.Time               `json:"effectiveAt"`
	LastUpdatedAt time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy string                  `json:"lastUpdatedBy"`
}

// ToCurrencyRateResponse converts a domain.CurrencyRate; display is computed by the caller.
func ToCurrencyRateResponse(rate *domain.CurrencyRate, display decimal.Decimal) CurrencyRateResponse {
	return CurrencyRateResponse{
		CurrencyCode:  rate.CurrencyCode,
		Operator:      rate.Operator,
		Rate:          rate.RateToBase,
		DisplayRate:   display,
		EffectiveAt:   rate.EffectiveAt,
		LastUpdatedAt: rate.LastUpdatedAt,
		LastUpdatedBy: rate.LastUpdatedBy,
	}
}

// ConvertAmountResponse is the result of converting an amount into base currency.
type ConvertAmountResponse struct {
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`
	BaseAmount   decimal.Decimal `json:"baseAmount"`
}
