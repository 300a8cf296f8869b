package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal entries. Entries are always
// returned with their lines ordered by line number.
type JournalReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByCompany retrieves a page of entries using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// FindEntriesBySourceInvoice retrieves every entry linked to invoiceID,
	// ordered by creation time with the entry ID as tie-break.
	FindEntriesBySourceInvoice(ctx context.Context, companyID string, invoiceID string) ([]domain.JournalEntry, error)

	// ListUnlinkedEntries retrieves entries that carry no source invoice.
	ListUnlinkedEntries(ctx context.Context, companyID string) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveEntry persists an entry header and its lines, applying balanceChanges to
	// the cached account balances, all within one database transaction. A failure
	// after the header was written is reported as ErrPartialWrite.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error

	// DeleteEntry removes the lines, then the header, applying balanceChanges
	// within one database transaction. A missing header yields ErrNotFound.
	DeleteEntry(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal) error

	// LinkSourceInvoice sets the source invoice of an entry that has none.
	LinkSourceInvoice(ctx context.Context, entryID string, invoiceID string, userID string, at time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx is the journal store the services depend on.
// SaveEntry and DeleteEntry each run in a single transaction together with
// the cached balance changes they carry.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
}
