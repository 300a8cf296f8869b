package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate stores the current rate of one currency for a company.
type CurrencyRate struct {
	CompanyID    string          `db:"company_id"`
	CurrencyCode string          `db:"currency_code"`
	RateToBase   decimal.Decimal `db:"rate_to_base"`
	Operator     string          `db:"operator"` // "multiply" or "divide"
	EffectiveAt  time.Time       `db:"effective_at"`
	AuditFields
}
