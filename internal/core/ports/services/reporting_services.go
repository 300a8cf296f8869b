package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// ReportingService derives statements from posted journal lines.
type ReportingService interface {
	TrialBalance(ctx context.Context, companyID string, period domain.DateRange) (*domain.TrialBalanceReport, error)
	ProfitAndLoss(ctx context.Context, companyID string, period domain.DateRange) (*domain.PAndLReport, error)
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error)
	CurrencyDifferences(ctx context.Context, companyID string, asOf time.Time) (*domain.CurrencyDifferenceReport, error)
}
