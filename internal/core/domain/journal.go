package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry. Only POSTED entries feed reports.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// ReferenceType tags what produced an entry.
type ReferenceType string

const (
	ReferenceNone       ReferenceType = ""
	ReferenceInvoice    ReferenceType = "invoice"
	ReferenceBond       ReferenceType = "bond"
	ReferenceCorrection ReferenceType = "correction"
)

// CorrectionMarker is written into the description of every correction entry and
// its lines. Legacy corrections carry only this marker, not the reference type.
const CorrectionMarker = "correction"

// JournalEntry is a single, balanced financial event made of ordered lines.
type JournalEntry struct {
	EntryID         string        `json:"entryID"`
	CompanyID       string        `json:"companyID"`
	EntryDate       time.Time     `json:"entryDate"`
	Description     string        `json:"description"`
	Status          EntryStatus   `json:"status"`
	ReferenceType   ReferenceType `json:"referenceType"`
	SourceInvoiceID *string       `json:"sourceInvoiceID,omitempty"` // FK -> purchase_invoices.invoice_id
	Lines           []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// IsCorrection reports whether the entry was produced by the reconciliation service.
func (e JournalEntry) IsCorrection() bool {
	if e.ReferenceType == ReferenceCorrection {
		return true
	}
	return HasCorrectionMarker(e.Description)
}

// TotalDebit sums the debit side of all lines.
func (e JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.DebitAmount)
	}
	return total
}

// TotalCredit sums the credit side of all lines.
func (e JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.CreditAmount)
	}
	return total
}

// HasCorrectionMarker reports whether a free-text description carries the correction marker.
func HasCorrectionMarker(description string) bool {
	return strings.Contains(strings.ToLower(description), CorrectionMarker)
}
