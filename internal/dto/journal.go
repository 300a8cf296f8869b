package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalEntryRequest defines the data needed to post a journal entry.
type CreateJournalEntryRequest struct {
	EntryDate       time.Time                  `json:"entryDate" binding:"required"`
	Description     string                     `json:"description" binding:"required"`
	ReferenceType   domain.ReferenceType       `json:"referenceType" binding:"omitempty,oneof=invoice bond correction"`
	SourceInvoiceID *string                    `json:"sourceInvoiceID"`
	Draft           bool                       `json:"draft"` // Store as DRAFT; drafts do not move balances or reports
	Lines           []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// CreateJournalLineRequest is one line of a new entry. Amounts are in base currency.
type CreateJournalLineRequest struct {
	AccountID     string           `json:"accountID" binding:"required"`
	DebitAmount   decimal.Decimal  `json:"debitAmount"`
	CreditAmount  decimal.Decimal  `json:"creditAmount"`
	Description   string           `json:"description"`
	ForeignAmount *decimal.Decimal `json:"foreignAmount"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID        string           `json:"lineID"`
	LineNumber    int              `json:"lineNumber"`
	AccountID     string           `json:"accountID"`
	DebitAmount   decimal.Decimal  `json:"debitAmount"`
	CreditAmount  decimal.Decimal  `json:"creditAmount"`
	Description   string           `json:"description"`
	CurrencyCode  string           `json:"currencyCode"`
	ForeignAmount *decimal.Decimal `json:"foreignAmount,omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	EntryDate       time.Time             `json:"entryDate"`
	Description     string                `json:"description"`
	Status          domain.EntryStatus    `json:"status"`
	ReferenceType   domain.ReferenceType  `json:"referenceType"`
	SourceInvoiceID *string               `json:"sourceInvoiceID,omitempty"`
	TotalDebit      decimal.Decimal       `json:"totalDebit"`
	TotalCredit     decimal.Decimal       `json:"totalCredit"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:        l.LineID,
			LineNumber:    l.LineNumber,
			AccountID:     l.AccountID,
			DebitAmount:   l.DebitAmount,
			CreditAmount:  l.CreditAmount,
			Description:   l.Description,
			CurrencyCode:  l.CurrencyCode,
			ForeignAmount: l.ForeignAmount,
			ExchangeRate:  l.ExchangeRate,
		}
	}
	return JournalEntryResponse{
		EntryID:         e.EntryID,
		EntryDate:       e.EntryDate,
		Description:     e.Description,
		Status:          e.Status,
		ReferenceType:   e.ReferenceType,
		SourceInvoiceID: e.SourceInvoiceID,
		TotalDebit:      e.TotalDebit(),
		TotalCredit:     e.TotalCredit(),
		Lines:           lines,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ListJournalEntriesParams holds parameters for listing entries.
type ListJournalEntriesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListJournalEntriesResponse wraps a page of entries with the next page token.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
