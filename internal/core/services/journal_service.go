package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
)

const (
	defaultEntryPageSize = 20
	maxEntryPageSize     = 100
)

// journalService enforces the journal entry invariants and owns every write to the ledger.
type journalService struct {
	BaseService
	accountSvc  portssvc.AccountReaderSvc
	journalRepo portsrepo.JournalRepositoryWithTx
	rateRepo    portsrepo.CurrencyRateReader
	tolerance   decimal.Decimal
	now         func() time.Time
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithEntryTolerance overrides the largest allowed |Σdebit − Σcredit|.
func WithEntryTolerance(tolerance decimal.Decimal) JournalServiceOption {
	return func(s *journalService) {
		if tolerance.IsPositive() {
			s.tolerance = tolerance
		}
	}
}

// WithLineRates lets foreign lines be converted with the operator of the
// company's stored rate. Without it, or without a stored rate, line rates multiply.
func WithLineRates(rateRepo portsrepo.CurrencyRateReader) JournalServiceOption {
	return func(s *journalService) {
		s.rateRepo = rateRepo
	}
}

// WithJournalClock replaces time.Now, used for deterministic audit fields.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, accountSvc portssvc.AccountReaderSvc, authorizer portssvc.CompanyAuthorizerSvc, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
		tolerance:   accounting.DefaultEntryTolerance,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateBalancedEntry validates the request and persists the entry with its lines.
func (s *journalService) CreateBalancedEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	company, err := s.AuthorizeCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: entry description is required", apperrors.ErrValidation)
	}
	if req.EntryDate.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	entryID := uuid.NewString()

	lines := make([]domain.JournalLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:        uuid.NewString(),
			EntryID:       entryID,
			LineNumber:    i + 1,
			AccountID:     l.AccountID,
			DebitAmount:   l.DebitAmount,
			CreditAmount:  l.CreditAmount,
			Description:   l.Description,
			ForeignAmount: l.ForeignAmount,
			ExchangeRate:  l.ExchangeRate,
		}
		accountIDs = append(accountIDs, l.AccountID)
	}

	if err := accounting.ValidateEntryLines(lines, s.tolerance); err != nil {
		s.LogWarn(ctx, "Rejected journal entry", slog.String("error", err.Error()))
		return nil, err
	}

	accounts, err := s.accountSvc.GetAccountByIDs(ctx, companyID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType, len(accounts))
	operators := map[string]domain.ExchangeOperator{}
	for i := range lines {
		acc, found := accounts[lines[i].AccountID]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrAccountNotFound, lines[i].AccountID)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
		foreign := acc.CurrencyCode != company.BaseCurrencyCode
		if foreign && !lines[i].IsMultiCurrency() {
			return nil, fmt.Errorf("%w: line %d posts to %s account %s without foreign amount and exchange rate",
				apperrors.ErrValidation, lines[i].LineNumber, acc.CurrencyCode, acc.Code)
		}
		if !foreign && lines[i].IsMultiCurrency() {
			return nil, fmt.Errorf("%w: line %d carries a foreign amount on base currency account %s",
				apperrors.ErrValidation, lines[i].LineNumber, acc.Code)
		}
		if foreign {
			if err := s.checkConvertedAmount(ctx, companyID, lines[i], acc.CurrencyCode, operators); err != nil {
				return nil, err
			}
		}
		lines[i].CurrencyCode = acc.CurrencyCode
		accountTypes[acc.AccountID] = acc.AccountType
	}

	entry := domain.JournalEntry{
		EntryID:         entryID,
		CompanyID:       companyID,
		EntryDate:       req.EntryDate,
		Description:     description,
		Status:          domain.Posted,
		ReferenceType:   req.ReferenceType,
		SourceInvoiceID: req.SourceInvoiceID,
		Lines:           lines,
		AuditFields:     domain.NewAuditFields(userID, now),
	}
	if entry.ReferenceType == domain.ReferenceNone && entry.SourceInvoiceID != nil {
		entry.ReferenceType = domain.ReferenceInvoice
	}

	balanceChanges := map[string]decimal.Decimal{}
	if req.Draft {
		entry.Status = domain.Draft
	} else {
		balanceChanges, err = accounting.BalanceChanges(lines, accountTypes)
		if err != nil {
			s.LogError(ctx, err, "Failed to calculate balance changes", slog.String("entry_id", entryID))
			return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
		}
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrPartialWrite) {
			s.compensate(ctx, entryID)
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entryID),
		slog.String("status", string(entry.Status)),
		slog.Int("line_count", len(lines)))
	return &entry, nil
}

// checkConvertedAmount rejects a foreign line whose base amount differs from
// its converted foreign amount by the entry tolerance or more.
func (s *journalService) checkConvertedAmount(ctx context.Context, companyID string, line domain.JournalLine, currency string, operators map[string]domain.ExchangeOperator) error {
	op, known := operators[currency]
	if !known {
		var err error
		if op, err = s.lineOperator(ctx, companyID, currency); err != nil {
			return err
		}
		operators[currency] = op
	}

	converted, err := accounting.ToBase(*line.ForeignAmount, *line.ExchangeRate, op)
	if err != nil {
		return fmt.Errorf("line %d: %w", line.LineNumber, err)
	}
	if converted.Sub(line.Amount()).Abs().GreaterThanOrEqual(s.tolerance) {
		return fmt.Errorf("%w: line %d: %s %s at rate %s (%s) is %s in base currency, line amount is %s",
			apperrors.ErrValidation, line.LineNumber, line.ForeignAmount.String(), currency,
			line.ExchangeRate.String(), op, converted.String(), line.Amount().String())
	}
	return nil
}

func (s *journalService) lineOperator(ctx context.Context, companyID string, currency string) (domain.ExchangeOperator, error) {
	if s.rateRepo == nil {
		return domain.Multiply, nil
	}
	rate, err := s.rateRepo.FindRate(ctx, companyID, currency)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Multiply, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s rate: %w", currency, err)
	}
	return rate.Operator, nil
}

// compensate removes whatever is left of an entry whose save failed midway.
func (s *journalService) compensate(ctx context.Context, entryID string) {
	err := s.journalRepo.DeleteEntry(ctx, entryID, nil)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Compensating delete failed", slog.String("entry_id", entryID))
		return
	}
	s.LogWarn(ctx, "Compensating delete issued for partially written entry", slog.String("entry_id", entryID))
}

// GetEntry retrieves an entry with its lines.
func (s *journalService) GetEntry(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.CompanyID != companyID {
		s.LogWarn(ctx, "Journal entry belongs to a different company", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return entry, nil
}

// ListEntries returns a page of entries, newest first.
func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntryPageSize
	}
	if limit > maxEntryPageSize {
		limit = maxEntryPageSize
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByCompany(ctx, companyID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("company_id", companyID))
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, nextToken, nil
}

// VoidEntry deletes the entry and reverses its effect on cached balances.
func (s *journalService) VoidEntry(ctx context.Context, companyID string, entryID string, userID string) error {
	entry, err := s.GetEntry(ctx, companyID, entryID)
	if err != nil {
		return err
	}

	var reversal map[string]decimal.Decimal
	if entry.Status == domain.Posted {
		reversal, err = s.reversalFor(ctx, companyID, entry)
		if err != nil {
			return err
		}
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID, reversal); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to void journal entry", slog.String("entry_id", entryID))
		}
		return fmt.Errorf("failed to void journal entry %s: %w", entryID, err)
	}

	s.LogInfo(ctx, "Journal entry voided",
		slog.String("entry_id", entryID),
		slog.String("user_id", userID))
	return nil
}

func (s *journalService) reversalFor(ctx context.Context, companyID string, entry *domain.JournalEntry) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(entry.Lines))
	for _, l := range entry.Lines {
		ids = append(ids, l.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountByIDs(ctx, companyID, uniqueStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for id, acc := range accounts {
		accountTypes[id] = acc.AccountType
	}
	changes, err := accounting.BalanceChanges(entry.Lines, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAccountNotFound, err)
	}
	return accounting.NegateChanges(changes), nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
