package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// CurrencyRateReader defines read operations for currency rates
type CurrencyRateReader interface {
	// FindRate returns the current rate of currencyCode for a company, or ErrNotFound.
	FindRate(ctx context.Context, companyID string, currencyCode string) (*domain.CurrencyRate, error)

	// ListRates returns every stored rate of a company ordered by currency code.
	ListRates(ctx context.Context, companyID string) ([]domain.CurrencyRate, error)
}

// CurrencyRateWriter defines write operations for currency rates
type CurrencyRateWriter interface {
	// SaveRate inserts or replaces the rate for (company, currency).
	SaveRate(ctx context.Context, rate domain.CurrencyRate) error
}

// CurrencyRateRepositoryFacade combines all currency rate repository interfaces
type CurrencyRateRepositoryFacade interface {
	CurrencyRateReader
	CurrencyRateWriter
}
