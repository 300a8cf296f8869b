package dto

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the struct-level rules that binding tags cannot
// express on decimal fields.
func RegisterValidators(v *validator.Validate) {
	v.RegisterStructValidation(validateJournalLine, CreateJournalLineRequest{})
	v.RegisterStructValidation(validateCurrencyRate, SetCurrencyRateRequest{})
}

func validateJournalLine(sl validator.StructLevel) {
	line := sl.Current().Interface().(CreateJournalLineRequest)

	if line.DebitAmount.IsNegative() {
		sl.ReportError(line.DebitAmount, "DebitAmount", "debitAmount", "gte0", "")
	}
	if line.CreditAmount.IsNegative() {
		sl.ReportError(line.CreditAmount, "CreditAmount", "creditAmount", "gte0", "")
	}
	if line.DebitAmount.IsZero() == line.CreditAmount.IsZero() {
		sl.ReportError(line.DebitAmount, "DebitAmount", "debitAmount", "one_side", "")
	}
	if (line.ForeignAmount == nil) != (line.ExchangeRate == nil) {
		sl.ReportError(line.ForeignAmount, "ForeignAmount", "foreignAmount", "with_rate", "")
	}
}

func validateCurrencyRate(sl validator.StructLevel) {
	req := sl.Current().Interface().(SetCurrencyRateRequest)

	if (req.Rate == nil) == (req.DisplayRate == nil) {
		sl.ReportError(req.Rate, "Rate", "rate", "rate_xor_display", "")
		return
	}
	if req.Rate != nil && !req.Rate.IsPositive() {
		sl.ReportError(req.Rate, "Rate", "rate", "gt0", "")
	}
	if req.DisplayRate != nil && !req.DisplayRate.IsPositive() {
		sl.ReportError(req.DisplayRate, "DisplayRate", "displayRate", "gt0", "")
	}
}
