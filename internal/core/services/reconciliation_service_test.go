package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/SscSPs/erp_ledger/internal/testutil"
)

func corrections(t *testing.T, ledger *testutil.Ledger, invoiceID string) []domain.JournalEntry {
	t.Helper()
	entries, err := ledger.Store.FindEntriesBySourceInvoice(ctx, testutil.CompanyID, invoiceID)
	require.NoError(t, err)
	var out []domain.JournalEntry
	for _, e := range entries {
		if e.ReferenceType == domain.ReferenceCorrection {
			out = append(out, e)
		}
	}
	return out
}

func TestReconcileMissingCashPayments(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	scenario := ledger.SeedPurchaseScenario(t)
	svc := newContainer(t, ledger).Reconciliation

	res, err := svc.ReconcileMissingCashPayments(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, "Created 1 cash payment corrections across 2 cash invoices", res.Message)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Failures)

	fixed := corrections(t, ledger, scenario.Misrouted.InvoiceID)
	require.Len(t, fixed, 1)
	entry := fixed[0]
	assert.Equal(t, testutil.Day(5), entry.EntryDate)
	assert.Equal(t, "Cash payment correction for PUR-1001", entry.Description)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, ledger.Payable.AccountID, entry.Lines[0].AccountID)
	assert.True(t, entry.Lines[0].DebitAmount.Equal(dec("1000")))
	assert.Equal(t, ledger.Cash.AccountID, entry.Lines[1].AccountID)
	assert.True(t, entry.Lines[1].CreditAmount.Equal(dec("1000")))

	assert.Empty(t, corrections(t, ledger, scenario.Correct.InvoiceID))
	requireBalance(t, ledger, ledger.Payable, "1000")
	requireBalance(t, ledger, ledger.Cash, "-1200")

	again, err := svc.ReconcileMissingCashPayments(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Count)
	assert.Len(t, corrections(t, ledger, scenario.Misrouted.InvoiceID), 1)
}

func TestReconcileMissingCashPayments_LegacyMarkerCountsAsFixed(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	scenario := ledger.SeedPurchaseScenario(t)
	ledger.Post(t, testutil.EntrySpec{
		CreatedAt:   testutil.Day(5).Add(12 * time.Hour),
		Description: "Manual correction of PUR-1001",
		InvoiceID:   scenario.Misrouted.InvoiceID,
		Lines:       []domain.JournalLine{testutil.Debit(ledger.Payable.AccountID, "1000"), testutil.Credit(ledger.Cash.AccountID, "1000")},
	})
	svc := newContainer(t, ledger).Reconciliation

	res, err := svc.ReconcileMissingCashPayments(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, corrections(t, ledger, scenario.Misrouted.InvoiceID))
}

func TestReconcileMissingCashPayments_WarnsOnSeveralSuspects(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	inv := ledger.AddInvoice("PUR-2001", domain.PaymentCash, "300", testutil.Day(9))
	for i := range 2 {
		ledger.Post(t, testutil.EntrySpec{
			CreatedAt:   testutil.Day(9).Add(time.Duration(i) * time.Minute),
			Description: "Purchase invoice PUR-2001",
			InvoiceID:   inv.InvoiceID,
			Lines:       []domain.JournalLine{testutil.Debit(ledger.Purchases.AccountID, "300"), testutil.Credit(ledger.Payable.AccountID, "300")},
		})
	}
	svc := newContainer(t, ledger).Reconciliation

	res, err := svc.ReconcileMissingCashPayments(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "PUR-2001", res.Warnings[0].InvoiceNumber)
	assert.Contains(t, res.Warnings[0].Message, "2 payable credits")
}

func TestReconcileMissingCashPayments_FailureDoesNotAbortBatch(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	scenario := ledger.SeedPurchaseScenario(t)
	second := ledger.AddInvoice("PUR-1004", domain.PaymentCash, "40", testutil.Day(8))
	ledger.Post(t, testutil.EntrySpec{
		CreatedAt:   testutil.Day(8).Add(9 * time.Hour),
		Description: "Purchase invoice PUR-1004",
		InvoiceID:   second.InvoiceID,
		Lines:       []domain.JournalLine{testutil.Debit(ledger.Purchases.AccountID, "40"), testutil.Credit(ledger.Payable.AccountID, "40")},
	})
	ledger.Store.FailLineWrite = func(e domain.JournalEntry) bool {
		return e.SourceInvoiceID != nil && *e.SourceInvoiceID == scenario.Misrouted.InvoiceID
	}
	svc := newContainer(t, ledger, func(c *config.Config) { c.ReconcileConcurrency = 1 }).Reconciliation

	res, err := svc.ReconcileMissingCashPayments(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "PUR-1001", res.Failures[0].InvoiceNumber)
	assert.Len(t, ledger.Store.DeleteCalls, 1)
	assert.Len(t, corrections(t, ledger, second.InvoiceID), 1)
	assert.Empty(t, corrections(t, ledger, scenario.Misrouted.InvoiceID))
}

func TestReconcileMissingCashPayments_MissingCashAccount(t *testing.T) {
	store := testutil.NewMemoryStore()
	ledger := &testutil.Ledger{Store: store}
	require.NoError(t, store.SaveCompany(ctx, domain.Company{CompanyID: "bare", BaseCurrencyCode: "SEK", IsActive: true}))
	svc := newContainer(t, ledger).Reconciliation

	_, err := svc.ReconcileMissingCashPayments(ctx, "bare", testutil.UserID)
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestReconcile_CancelledContext(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	ledger.SeedPurchaseScenario(t)
	svc := newContainer(t, ledger).Reconciliation

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	res, err := svc.ReconcileMissingCashPayments(cancelled, testutil.CompanyID, testutil.UserID)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Count)
	requireBalance(t, ledger, ledger.Payable, "2000")
}

func TestRemoveDuplicateEntries(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	scenario := ledger.SeedPurchaseScenario(t)
	svc := newContainer(t, ledger).Reconciliation

	res, err := svc.RemoveDuplicateEntries(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, "Deleted 1 duplicate entries across 3 invoices", res.Message)

	_, err = ledger.Store.FindEntryByID(ctx, scenario.Duplicate.EntryID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	kept, err := ledger.Store.FindEntryByID(ctx, scenario.Original.EntryID)
	require.NoError(t, err)
	assert.Equal(t, scenario.Original.EntryID, kept.EntryID)
	requireBalance(t, ledger, ledger.Payable, "1500")
	requireBalance(t, ledger, ledger.Purchases, "1700")

	again, err := svc.RemoveDuplicateEntries(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Count)
}

func TestRemoveDuplicateEntries_ThreePostingsKeepEarliest(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	svc := newContainer(t, ledger).Reconciliation

	inv := ledger.AddInvoice("PUR-1002", domain.PaymentCredit, "500", testutil.Day(6))
	post := func(at time.Time) domain.JournalEntry {
		return ledger.Post(t, testutil.EntrySpec{
			CreatedAt:   at,
			Description: "Purchase invoice PUR-1002",
			InvoiceID:   inv.InvoiceID,
			Lines:       []domain.JournalLine{testutil.Debit(ledger.Purchases.AccountID, "500"), testutil.Credit(ledger.Payable.AccountID, "500")},
		})
	}
	t1 := testutil.Day(6).Add(9 * time.Hour)
	// stored out of creation order
	third := post(t1.Add(2 * time.Minute))
	first := post(t1)
	second := post(t1.Add(time.Minute))
	requireBalance(t, ledger, ledger.Purchases, "1500")

	res, err := svc.RemoveDuplicateEntries(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 1, res.Scanned)
	assert.Empty(t, res.Failures)

	remaining, err := ledger.Store.FindEntriesBySourceInvoice(ctx, testutil.CompanyID, inv.InvoiceID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, first.EntryID, remaining[0].EntryID)
	for _, gone := range []domain.JournalEntry{second, third} {
		_, err := ledger.Store.FindEntryByID(ctx, gone.EntryID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}
	requireBalance(t, ledger, ledger.Purchases, "500")
	requireBalance(t, ledger, ledger.Payable, "500")

	again, err := svc.RemoveDuplicateEntries(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Count)
}

func TestRemoveDuplicateEntries_KeepsCorrections(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	scenario := ledger.SeedPurchaseScenario(t)
	c := newContainer(t, ledger)

	_, err := c.Reconciliation.ReconcileMissingCashPayments(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	res, err := c.Reconciliation.RemoveDuplicateEntries(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Len(t, corrections(t, ledger, scenario.Misrouted.InvoiceID), 1)

	requireBalance(t, ledger, ledger.Payable, "500")
	requireBalance(t, ledger, ledger.Cash, "-1200")

	tb, err := c.Reporting.TrialBalance(ctx, testutil.CompanyID, domain.DateRange{})
	require.NoError(t, err)
	assert.True(t, tb.IsBalanced)
}

func TestLinkSourceInvoices(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	scenario := ledger.SeedPurchaseScenario(t)
	payment := ledger.Post(t, testutil.EntrySpec{
		CreatedAt:   testutil.Day(12).Add(9 * time.Hour),
		Description: "Supplier payment",
		Lines: []domain.JournalLine{
			{AccountID: ledger.Payable.AccountID, DebitAmount: dec("200"), Description: "settles pur-1003"},
			testutil.Credit(ledger.Cash.AccountID, "200"),
		},
	})
	ledger.Post(t, testutil.EntrySpec{
		CreatedAt:   testutil.Day(13).Add(9 * time.Hour),
		Description: "Settlement PUR-1001 and PUR-1002",
		Lines:       []domain.JournalLine{testutil.Debit(ledger.Payable.AccountID, "1500"), testutil.Credit(ledger.Cash.AccountID, "1500")},
	})
	ledger.Post(t, testutil.EntrySpec{
		CreatedAt:   testutil.Day(14).Add(9 * time.Hour),
		Description: "Office rent PUR-10030",
		Lines:       []domain.JournalLine{testutil.Debit(ledger.Purchases.AccountID, "90"), testutil.Credit(ledger.Cash.AccountID, "90")},
	})
	svc := newContainer(t, ledger).Reconciliation

	res, err := svc.LinkSourceInvoices(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 3, res.Scanned)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "PUR-1001,PUR-1002", res.Failures[0].InvoiceNumber)

	linked, err := ledger.Store.FindEntryByID(ctx, payment.EntryID)
	require.NoError(t, err)
	require.NotNil(t, linked.SourceInvoiceID)
	assert.Equal(t, scenario.Correct.InvoiceID, *linked.SourceInvoiceID)

	again, err := svc.LinkSourceInvoices(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Count)
	assert.Equal(t, 2, again.Scanned)
}

func TestRemoveDuplicateEntries_BackfillsLinksFirst(t *testing.T) {
	ledger := testutil.SeedLedger(t)
	scenario := ledger.SeedPurchaseScenario(t)
	unlinked := ledger.Post(t, testutil.EntrySpec{
		CreatedAt:   testutil.Day(6).Add(10 * time.Hour),
		Description: "Purchase invoice PUR-1002",
		Lines:       []domain.JournalLine{testutil.Debit(ledger.Purchases.AccountID, "500"), testutil.Credit(ledger.Payable.AccountID, "500")},
	})
	svc := newContainer(t, ledger, func(c *config.Config) { c.ReconcileBackfillLinks = true }).Reconciliation

	res, err := svc.RemoveDuplicateEntries(ctx, testutil.CompanyID, testutil.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	for _, id := range []string{scenario.Duplicate.EntryID, unlinked.EntryID} {
		_, err = ledger.Store.FindEntryByID(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}
	requireBalance(t, ledger, ledger.Payable, "1500")
}
