package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeOperator says how a stored rate converts a foreign amount into base currency.
type ExchangeOperator string

const (
	Multiply ExchangeOperator = "multiply" // base = amount * rate
	Divide   ExchangeOperator = "divide"   // base = amount / rate
)

// IsValid reports whether op is multiply or divide.
func (op ExchangeOperator) IsValid() bool {
	return op == Multiply || op == Divide
}

// CurrencyRate is the current conversion of one currency into a company's base
// currency. The base currency itself never has a stored rate.
type CurrencyRate struct {
	CompanyID    string           `json:"companyID"`
	CurrencyCode string           `json:"currencyCode"`
	RateToBase   decimal.Decimal  `json:"rateToBase"` // Always > 0
	Operator     ExchangeOperator `json:"operator"`
	EffectiveAt  time.Time        `json:"effectiveAt"`
	AuditFields
}
