package domain

import (
	"fmt"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalLine is one debit or credit against one account. Debit and credit
// amounts are in the company base currency; exactly one of them is nonzero.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"` // 1-based, ordering within the entry
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
	CurrencyCode string          `json:"currencyCode"` // Currency of the account
	// ForeignAmount and ExchangeRate are set together for lines on accounts whose
	// currency differs from the base currency. ExchangeRate is the stored rate.
	ForeignAmount *decimal.Decimal `json:"foreignAmount,omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// IsDebit reports whether the line sits on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns the nonzero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// Net returns debit minus credit.
func (l JournalLine) Net() decimal.Decimal {
	return l.DebitAmount.Sub(l.CreditAmount)
}

// SignedForeignAmount returns the foreign amount signed like Net, or zero for
// single-currency lines.
func (l JournalLine) SignedForeignAmount() decimal.Decimal {
	if l.ForeignAmount == nil {
		return decimal.Zero
	}
	if l.IsDebit() {
		return *l.ForeignAmount
	}
	return l.ForeignAmount.Neg()
}

// IsMultiCurrency reports whether the line carries a foreign amount and its rate.
func (l JournalLine) IsMultiCurrency() bool {
	return l.ForeignAmount != nil && l.ExchangeRate != nil
}

// Validate checks the per-line rules. Balance across lines is checked by the caller.
func (l JournalLine) Validate() error {
	if l.AccountID == "" {
		return fmt.Errorf("%w: line %d: account is required", apperrors.ErrValidation, l.LineNumber)
	}
	if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
		return fmt.Errorf("%w: line %d: amounts must not be negative", apperrors.ErrValidation, l.LineNumber)
	}
	if !l.DebitAmount.IsZero() && !l.CreditAmount.IsZero() {
		return fmt.Errorf("%w: line %d: debit and credit are both set", apperrors.ErrValidation, l.LineNumber)
	}
	if l.DebitAmount.IsZero() && l.CreditAmount.IsZero() {
		return fmt.Errorf("%w: line %d: debit or credit is required", apperrors.ErrValidation, l.LineNumber)
	}
	if (l.ForeignAmount == nil) != (l.ExchangeRate == nil) {
		return fmt.Errorf("%w: line %d: foreign amount and exchange rate must be set together", apperrors.ErrValidation, l.LineNumber)
	}
	if l.ForeignAmount != nil && !l.ForeignAmount.IsPositive() {
		return fmt.Errorf("%w: line %d: foreign amount must be positive", apperrors.ErrValidation, l.LineNumber)
	}
	if l.ExchangeRate != nil && !l.ExchangeRate.IsPositive() {
		return fmt.Errorf("%w: line %d: exchange rate must be positive", apperrors.ErrValidation, l.LineNumber)
	}
	return nil
}
