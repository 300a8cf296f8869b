package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

// JournalEntry represents a row of journal_entries.
type JournalEntry struct {
	EntryID         string        `db:"entry_id"`
	CompanyID       string        `db:"company_id"`
	EntryDate       time.Time     `db:"entry_date"`
	Description     string        `db:"description"`
	Status          JournalStatus `db:"status"`
	ReferenceType   *string       `db:"reference_type"`    // Nullable
	SourceInvoiceID *string       `db:"source_invoice_id"` // Nullable
	AuditFields
}

// JournalLine represents a row of journal_entry_lines.
type JournalLine struct {
	LineID        string           `db:"line_id"`
	EntryID       string           `db:"entry_id"`
	LineNumber    int              `db:"line_number"`
	AccountID     string           `db:"account_id"`
	DebitAmount   decimal.Decimal  `db:"debit_amount"`
	CreditAmount  decimal.Decimal  `db:"credit_amount"`
	Description   string           `db:"description"`
	CurrencyCode  string           `db:"currency_code"`
	ForeignAmount *decimal.Decimal `db:"foreign_amount"` // Nullable
	ExchangeRate  *decimal.Decimal `db:"exchange_rate"`  // Nullable
}
