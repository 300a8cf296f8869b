package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyRateReaderSvc defines read operations for stored rates
type CurrencyRateReaderSvc interface {
	GetRate(ctx context.Context, companyID string, currencyCode string) (*domain.CurrencyRate, error)
	ListRates(ctx context.Context, companyID string) ([]domain.CurrencyRate, error)
}

// CurrencyRateWriterSvc defines write operations for stored rates
type CurrencyRateWriterSvc interface {
	// SetRate stores the rate for a currency, accepting either the stored or
	// the displayed form.
	SetRate(ctx context.Context, companyID string, req dto.SetCurrencyRateRequest, userID string) (*domain.CurrencyRate, error)
}

// CurrencyConverterSvc converts foreign amounts into the company's base currency.
type CurrencyConverterSvc interface {
	ConvertToBase(ctx context.Context, companyID string, currencyCode string, amount decimal.Decimal) (decimal.Decimal, error)
}

// CurrencyRateSvcFacade combines all rate-related service interfaces
type CurrencyRateSvcFacade interface {
	CurrencyRateReaderSvc
	CurrencyRateWriterSvc
	CurrencyConverterSvc
}
