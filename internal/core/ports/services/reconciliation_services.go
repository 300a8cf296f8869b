package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// ReconciliationService repairs known ledger defects. Every batch is
// idempotent: a second run over a repaired ledger changes nothing.
type ReconciliationService interface {
	// ReconcileMissingCashPayments posts a correcting entry for each cash
	// invoice whose payment was booked to the supplier payable account.
	ReconcileMissingCashPayments(ctx context.Context, companyID string, userID string) (*domain.BatchResult, error)

	// RemoveDuplicateEntries keeps the earliest entry per source invoice and
	// voids the rest.
	RemoveDuplicateEntries(ctx context.Context, companyID string, userID string) (*domain.BatchResult, error)

	// LinkSourceInvoices backfills the source invoice of entries that only
	// name the invoice in their text.
	LinkSourceInvoices(ctx context.Context, companyID string, userID string) (*domain.BatchResult, error)
}
