package accounting

import (
	"fmt"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ToBase converts a foreign amount into base currency. A zero or negative rate
// means the rate is missing; there is no fallback to 1.
func ToBase(amount, rate decimal.Decimal, op domain.ExchangeOperator) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: rate %s is not usable", apperrors.ErrRateMissing, rate.String())
	}
	switch op {
	case domain.Multiply:
		return amount.Mul(rate), nil
	case domain.Divide:
		return amount.Div(rate), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown exchange operator %q", apperrors.ErrValidation, op)
	}
}

// DisplayRate returns the rate as a user reads it: base units per foreign unit.
// Divide rates are stored inverted.
func DisplayRate(rate decimal.Decimal, op domain.ExchangeOperator) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: rate %s is not usable", apperrors.ErrRateMissing, rate.String())
	}
	if op == domain.Divide {
		return one.Div(rate), nil
	}
	return rate, nil
}

// RateFromDisplay is the inverse of DisplayRate.
func RateFromDisplay(display decimal.Decimal, op domain.ExchangeOperator) (decimal.Decimal, error) {
	if !display.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: display rate must be positive", apperrors.ErrValidation)
	}
	switch op {
	case domain.Divide:
		return one.Div(display), nil
	case domain.Multiply:
		return display, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown exchange operator %q", apperrors.ErrValidation, op)
	}
}
