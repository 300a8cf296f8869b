package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
)

// ReportSettings tunes how statements are folded.
type ReportSettings struct {
	// StatementTolerance is the largest difference a balanced balance sheet may
	// show. Trial balances must close exactly.
	StatementTolerance decimal.Decimal
	// RoundingPlaces applies to revalued currency balances.
	RoundingPlaces int32
}

// DefaultReportSettings returns the settings used when none are configured.
func DefaultReportSettings() ReportSettings {
	return ReportSettings{
		StatementTolerance: accounting.DefaultStatementTolerance,
		RoundingPlaces:     2,
	}
}

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	rateRepo      portsrepo.CurrencyRateReader
	settings      ReportSettings
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportSettings overrides the default report settings.
func WithReportSettings(settings ReportSettings) ReportingServiceOption {
	return func(s *reportingService) {
		if settings.StatementTolerance.IsPositive() {
			s.settings.StatementTolerance = settings.StatementTolerance
		}
		if settings.RoundingPlaces > 0 {
			s.settings.RoundingPlaces = settings.RoundingPlaces
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, rateRepo portsrepo.CurrencyRateReader, authorizer portssvc.CompanyAuthorizerSvc, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		BaseService:   BaseService{CompanyAuthorizer: authorizer},
		reportingRepo: repo,
		rateRepo:      rateRepo,
		settings:      DefaultReportSettings(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) foldPeriod(ctx context.Context, companyID string, period domain.DateRange) (domain.TrialBalanceReport, error) {
	lines, err := s.reportingRepo.ListPostedLines(ctx, companyID, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve posted lines", slog.String("company_id", companyID))
		return domain.TrialBalanceReport{}, fmt.Errorf("failed to retrieve posted lines: %w", err)
	}
	return accounting.FoldTrialBalance(lines), nil
}

// TrialBalance folds the posted lines of period into one row per account.
func (s *reportingService) TrialBalance(ctx context.Context, companyID string, period domain.DateRange) (*domain.TrialBalanceReport, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}

	report, err := s.foldPeriod(ctx, companyID, period)
	if err != nil {
		return nil, err
	}
	if !report.IsBalanced {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()))
	}

	s.LogInfo(ctx, "Trial balance report generated", slog.Int("row_count", len(report.Rows)))
	return &report, nil
}

// ProfitAndLoss generates a profit and loss report for a specific period
func (s *reportingService) ProfitAndLoss(ctx context.Context, companyID string, period domain.DateRange) (*domain.PAndLReport, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}

	tb, err := s.foldPeriod(ctx, companyID, period)
	if err != nil {
		return nil, err
	}
	report := accounting.PartitionProfitAndLoss(tb.Rows)

	s.LogInfo(ctx, "Profit and loss report generated",
		slog.String("net_profit", report.NetProfit.String()))
	return &report, nil
}

// BalanceSheet generates a balance sheet over every posted line up to asOf.
func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}

	tb, err := s.foldPeriod(ctx, companyID, domain.DateRange{To: &asOf})
	if err != nil {
		return nil, err
	}
	report := accounting.PartitionBalanceSheet(tb.Rows, s.settings.StatementTolerance)
	if !report.IsBalanced {
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.String("difference", report.Difference.String()),
			slog.String("as_of", asOf.Format(time.DateOnly)))
	}

	s.LogInfo(ctx, "Balance sheet report generated", slog.String("as_of", asOf.Format(time.DateOnly)))
	return &report, nil
}

// CurrencyDifferences revalues foreign-currency balances at the current rates
// and reports the unrealized gain or loss per account.
func (s *reportingService) CurrencyDifferences(ctx context.Context, companyID string, asOf time.Time) (*domain.CurrencyDifferenceReport, error) {
	company, err := s.AuthorizeCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	tb, err := s.foldPeriod(ctx, companyID, domain.DateRange{To: &asOf})
	if err != nil {
		return nil, err
	}

	stored, err := s.rateRepo.ListRates(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currency rates", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list currency rates: %w", err)
	}
	rates := make(map[string]domain.CurrencyRate, len(stored))
	for _, r := range stored {
		rates[r.CurrencyCode] = r
	}

	report := accounting.RevalueForeignBalances(tb.Rows, company.BaseCurrencyCode, rates, s.settings.RoundingPlaces)
	if len(report.MissingRates) > 0 {
		s.LogWarn(ctx, "Currency differences skipped currencies without a rate",
			slog.Any("missing_rates", report.MissingRates))
	}

	s.LogInfo(ctx, "Currency differences report generated",
		slog.Int("row_count", len(report.Rows)),
		slog.String("total_gain", report.TotalGain.String()))
	return &report, nil
}
