package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// ReportingRepository provides the raw rows reports are folded from. Grouping
// happens in the service so every report shares one aggregation path.
type ReportingRepository interface {
	// ListPostedLines returns every line of POSTED entries of a company whose
	// entry date falls within period, joined with its account.
	ListPostedLines(ctx context.Context, companyID string, period domain.DateRange) ([]domain.PostedLine, error)
}
