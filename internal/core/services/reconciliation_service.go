package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
)

const defaultReconcileConcurrency = 4

// reconciliationService repairs misrouted cash postings and duplicate
// postings, and backfills missing source links.
type reconciliationService struct {
	BaseService
	accountSvc    portssvc.AccountRegistrySvc
	journalSvc    portssvc.JournalSvcFacade
	journalRepo   portsrepo.JournalRepositoryFacade
	invoiceRepo   portsrepo.PurchaseInvoiceReader
	concurrency   int
	backfillLinks bool
	now           func() time.Time
}

// ReconciliationOption is a functional option for configuring the reconciliation service
type ReconciliationOption func(*reconciliationService)

// WithConcurrency bounds the number of invoices processed at once.
func WithConcurrency(n int) ReconciliationOption {
	return func(s *reconciliationService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLinkBackfill makes both repair batches run LinkSourceInvoices first.
func WithLinkBackfill(enabled bool) ReconciliationOption {
	return func(s *reconciliationService) {
		s.backfillLinks = enabled
	}
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(
	accountSvc portssvc.AccountRegistrySvc,
	journalSvc portssvc.JournalSvcFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	invoiceRepo portsrepo.PurchaseInvoiceReader,
	authorizer portssvc.CompanyAuthorizerSvc,
	options ...ReconciliationOption,
) portssvc.ReconciliationService {
	svc := &reconciliationService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		accountSvc:  accountSvc,
		journalSvc:  journalSvc,
		journalRepo: journalRepo,
		invoiceRepo: invoiceRepo,
		concurrency: defaultReconcileConcurrency,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationService = (*reconciliationService)(nil)

// batch collects the outcome of concurrent per-item work.
type batch struct {
	mu     sync.Mutex
	result domain.BatchResult
}

func newBatch() *batch {
	return &batch{result: domain.BatchResult{
		Warnings: []domain.BatchItem{},
		Failures: []domain.BatchItem{},
	}}
}

func (b *batch) scanned() {
	b.mu.Lock()
	b.result.Scanned++
	b.mu.Unlock()
}

func (b *batch) add(n int) {
	b.mu.Lock()
	b.result.Count += n
	b.mu.Unlock()
}

func (b *batch) warn(inv domain.PurchaseInvoice, msg string) {
	b.mu.Lock()
	b.result.Warnings = append(b.result.Warnings, domain.BatchItem{InvoiceID: inv.InvoiceID, InvoiceNumber: inv.InvoiceNumber, Message: msg})
	b.mu.Unlock()
}

func (b *batch) fail(inv domain.PurchaseInvoice, msg string) {
	b.mu.Lock()
	b.result.Failures = append(b.result.Failures, domain.BatchItem{InvoiceID: inv.InvoiceID, InvoiceNumber: inv.InvoiceNumber, Message: msg})
	b.mu.Unlock()
}

// finish sorts the notes by invoice number so results are stable across runs.
func (b *batch) finish(message string) *domain.BatchResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	byNumber := func(items []domain.BatchItem) {
		sort.SliceStable(items, func(i, j int) bool { return items[i].InvoiceNumber < items[j].InvoiceNumber })
	}
	byNumber(b.result.Warnings)
	byNumber(b.result.Failures)
	b.result.Message = message
	res := b.result
	return &res
}

// run processes n items on a bounded pool. No new item starts once ctx is done.
func (s *reconciliationService) run(ctx context.Context, n int, work func(ctx context.Context, i int)) error {
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			work(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func (s *reconciliationService) maybeBackfill(ctx context.Context, companyID string, userID string) error {
	if !s.backfillLinks {
		return nil
	}
	res, err := s.LinkSourceInvoices(ctx, companyID, userID)
	if err != nil {
		return fmt.Errorf("source link backfill failed: %w", err)
	}
	s.LogInfo(ctx, "Source link backfill ran before repair", slog.Int("linked", res.Count))
	return nil
}

// ReconcileMissingCashPayments posts one correcting entry per cash invoice whose
// payment credited the supplier payable account instead of cash.
func (s *reconciliationService) ReconcileMissingCashPayments(ctx context.Context, companyID string, userID string) (*domain.BatchResult, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if err := s.maybeBackfill(ctx, companyID, userID); err != nil {
		return nil, err
	}

	cash, err := s.accountSvc.FindWellKnown(ctx, companyID, domain.RolePrimaryCash)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve cash account: %w", err)
	}
	payable, err := s.accountSvc.FindWellKnown(ctx, companyID, domain.RoleSupplierPayable)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve supplier payable account: %w", err)
	}

	method := domain.PaymentCash
	invoices, err := s.invoiceRepo.ListInvoicesByCompany(ctx, companyID, &method)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash invoices", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list cash invoices: %w", err)
	}

	b := newBatch()
	runErr := s.run(ctx, len(invoices), func(ctx context.Context, i int) {
		b.scanned()
		s.fixCashPayment(ctx, companyID, userID, invoices[i], cash, payable, b)
	})

	res := b.finish(fmt.Sprintf("Created %d cash payment corrections across %d cash invoices", b.result.Count, b.result.Scanned))
	s.LogInfo(ctx, "Cash payment reconciliation finished",
		slog.Int("fixed", res.Count),
		slog.Int("scanned", res.Scanned),
		slog.Int("warnings", len(res.Warnings)),
		slog.Int("failures", len(res.Failures)))
	return res, runErr
}

func (s *reconciliationService) fixCashPayment(ctx context.Context, companyID, userID string, inv domain.PurchaseInvoice, cash, payable *domain.Account, b *batch) {
	entries, err := s.journalRepo.FindEntriesBySourceInvoice(ctx, companyID, inv.InvoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entries for invoice", slog.String("invoice_number", inv.InvoiceNumber))
		b.fail(inv, fmt.Sprintf("failed to load entries: %v", err))
		return
	}

	suspects := payableCredits(entries, payable.AccountID)
	if len(suspects) == 0 {
		return
	}
	if correctionExists(entries, payable.AccountID) {
		return
	}
	if len(suspects) > 1 {
		b.warn(inv, fmt.Sprintf("%d payable credits found, corrected the first only", len(suspects)))
	}

	suspect := suspects[0]
	payableLine := dto.CreateJournalLineRequest{
		AccountID:   payable.AccountID,
		DebitAmount: suspect.CreditAmount,
		Description: "Cash payment correction, reverse payable for " + inv.InvoiceNumber,
	}
	cashLine := dto.CreateJournalLineRequest{
		AccountID:    cash.AccountID,
		CreditAmount: suspect.CreditAmount,
		Description:  "Cash payment correction, cash out for " + inv.InvoiceNumber,
	}
	if suspect.IsMultiCurrency() {
		payableLine.ForeignAmount, payableLine.ExchangeRate = suspect.ForeignAmount, suspect.ExchangeRate
		if cash.CurrencyCode == suspect.CurrencyCode {
			cashLine.ForeignAmount, cashLine.ExchangeRate = suspect.ForeignAmount, suspect.ExchangeRate
		}
	}

	invoiceID := inv.InvoiceID
	req := dto.CreateJournalEntryRequest{
		EntryDate:       inv.IssueDate,
		Description:     "Cash payment correction for " + inv.InvoiceNumber,
		ReferenceType:   domain.ReferenceCorrection,
		SourceInvoiceID: &invoiceID,
		Lines:           []dto.CreateJournalLineRequest{payableLine, cashLine},
	}

	entry, err := s.journalSvc.CreateBalancedEntry(ctx, companyID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogInfo(ctx, "Correction already present", slog.String("invoice_number", inv.InvoiceNumber))
			return
		}
		b.fail(inv, fmt.Sprintf("failed to post correction: %v", err))
		return
	}

	b.add(1)
	s.LogInfo(ctx, "Cash payment correction posted",
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("entry_id", entry.EntryID),
		slog.String("amount", suspect.CreditAmount.String()))
}

// payableCredits returns the payable credit lines of posted, non-correction
// entries. entries arrive ordered by creation time.
func payableCredits(entries []domain.JournalEntry, payableID string) []domain.JournalLine {
	var suspects []domain.JournalLine
	for _, e := range entries {
		if e.Status != domain.Posted || e.IsCorrection() {
			continue
		}
		lines := append([]domain.JournalLine(nil), e.Lines...)
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].LineNumber < lines[j].LineNumber })
		for _, l := range lines {
			if l.AccountID == payableID && l.CreditAmount.IsPositive() {
				suspects = append(suspects, l)
			}
		}
	}
	return suspects
}

func correctionExists(entries []domain.JournalEntry, payableID string) bool {
	for _, e := range entries {
		if e.Status == domain.Void {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID != payableID || !l.DebitAmount.IsPositive() {
				continue
			}
			if e.IsCorrection() || domain.HasCorrectionMarker(l.Description) {
				return true
			}
		}
	}
	return false
}

// RemoveDuplicateEntries keeps the oldest non-correction entry of each invoice
// and voids every later one.
func (s *reconciliationService) RemoveDuplicateEntries(ctx context.Context, companyID string, userID string) (*domain.BatchResult, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if err := s.maybeBackfill(ctx, companyID, userID); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListInvoicesByCompany(ctx, companyID, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	b := newBatch()
	runErr := s.run(ctx, len(invoices), func(ctx context.Context, i int) {
		b.scanned()
		s.removeDuplicates(ctx, companyID, userID, invoices[i], b)
	})

	res := b.finish(fmt.Sprintf("Deleted %d duplicate entries across %d invoices", b.result.Count, b.result.Scanned))
	s.LogInfo(ctx, "Duplicate entry removal finished",
		slog.Int("deleted", res.Count),
		slog.Int("scanned", res.Scanned),
		slog.Int("failures", len(res.Failures)))
	return res, runErr
}

func (s *reconciliationService) removeDuplicates(ctx context.Context, companyID, userID string, inv domain.PurchaseInvoice, b *batch) {
	entries, err := s.journalRepo.FindEntriesBySourceInvoice(ctx, companyID, inv.InvoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entries for invoice", slog.String("invoice_number", inv.InvoiceNumber))
		b.fail(inv, fmt.Sprintf("failed to load entries: %v", err))
		return
	}

	originals := make([]domain.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsCorrection() {
			originals = append(originals, e)
		}
	}
	if len(originals) < 2 {
		return
	}

	for _, dup := range originals[1:] {
		err := s.journalSvc.VoidEntry(ctx, companyID, dup.EntryID, userID)
		switch {
		case err == nil:
			b.add(1)
			s.LogInfo(ctx, "Duplicate entry deleted",
				slog.String("invoice_number", inv.InvoiceNumber),
				slog.String("entry_id", dup.EntryID),
				slog.String("kept_entry_id", originals[0].EntryID))
		case errors.Is(err, apperrors.ErrNotFound):
			// removed by a concurrent run
		default:
			b.fail(inv, fmt.Sprintf("failed to delete entry %s: %v", dup.EntryID, err))
		}
	}
}

// LinkSourceInvoices sets the source invoice of unlinked entries whose text
// names exactly one invoice number.
func (s *reconciliationService) LinkSourceInvoices(ctx context.Context, companyID string, userID string) (*domain.BatchResult, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListInvoicesByCompany(ctx, companyID, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	entries, err := s.journalRepo.ListUnlinkedEntries(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list unlinked entries", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list unlinked entries: %w", err)
	}

	b := newBatch()
	runErr := s.run(ctx, len(entries), func(ctx context.Context, i int) {
		b.scanned()
		s.linkEntry(ctx, userID, entries[i], invoices, b)
	})

	res := b.finish(fmt.Sprintf("Linked %d of %d unlinked entries", b.result.Count, b.result.Scanned))
	s.LogInfo(ctx, "Source link backfill finished",
		slog.Int("linked", res.Count),
		slog.Int("scanned", res.Scanned),
		slog.Int("failures", len(res.Failures)))
	return res, runErr
}

func (s *reconciliationService) linkEntry(ctx context.Context, userID string, entry domain.JournalEntry, invoices []domain.PurchaseInvoice, b *batch) {
	texts := make([]string, 0, len(entry.Lines)+1)
	texts = append(texts, entry.Description)
	for _, l := range entry.Lines {
		texts = append(texts, l.Description)
	}

	matches := accounting.MatchInvoices(texts, invoices)
	switch len(matches) {
	case 0:
		return
	case 1:
	default:
		numbers := make([]string, len(matches))
		for i, m := range matches {
			numbers[i] = m.InvoiceNumber
		}
		b.fail(domain.PurchaseInvoice{InvoiceNumber: strings.Join(numbers, ",")},
			fmt.Sprintf("entry %s names several invoices, not linked", entry.EntryID))
		return
	}

	inv := matches[0]
	if err := s.journalRepo.LinkSourceInvoice(ctx, entry.EntryID, inv.InvoiceID, userID, s.now().UTC()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// linked or removed concurrently
			return
		}
		b.fail(inv, fmt.Sprintf("failed to link entry %s: %v", entry.EntryID, err))
		return
	}
	b.add(1)
	s.LogDebug(ctx, "Entry linked to invoice",
		slog.String("entry_id", entry.EntryID),
		slog.String("invoice_number", inv.InvoiceNumber))
}
