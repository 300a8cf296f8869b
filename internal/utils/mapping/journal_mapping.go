package mapping

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		CompanyID:       d.CompanyID,
		EntryDate:       d.EntryDate,
		Description:     d.Description,
		Status:          models.JournalStatus(d.Status),
		ReferenceType:   nullable(string(d.ReferenceType)),
		SourceInvoiceID: d.SourceInvoiceID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		CompanyID:       m.CompanyID,
		EntryDate:       m.EntryDate,
		Description:     m.Description,
		Status:          domain.EntryStatus(m.Status),
		ReferenceType:   domain.ReferenceType(deref(m.ReferenceType)),
		SourceInvoiceID: m.SourceInvoiceID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:        d.LineID,
		EntryID:       d.EntryID,
		LineNumber:    d.LineNumber,
		AccountID:     d.AccountID,
		DebitAmount:   d.DebitAmount,
		CreditAmount:  d.CreditAmount,
		Description:   d.Description,
		CurrencyCode:  d.CurrencyCode,
		ForeignAmount: d.ForeignAmount,
		ExchangeRate:  d.ExchangeRate,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:        m.LineID,
		EntryID:       m.EntryID,
		LineNumber:    m.LineNumber,
		AccountID:     m.AccountID,
		DebitAmount:   m.DebitAmount,
		CreditAmount:  m.CreditAmount,
		Description:   m.Description,
		CurrencyCode:  m.CurrencyCode,
		ForeignAmount: m.ForeignAmount,
		ExchangeRate:  m.ExchangeRate,
	}
}
