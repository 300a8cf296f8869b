package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
)

const (
	CompanyID    = "00000000-0000-0000-0000-0000000000c1"
	BaseCurrency = "SEK"
	UserID       = "00000000-0000-0000-0000-0000000000a1"
)

// Ledger is a seeded company with the chart of accounts used across tests.
type Ledger struct {
	Store   *MemoryStore
	Company domain.Company

	Cash       domain.Account // 1101
	BankEUR    domain.Account // 1201, EUR
	Receivable domain.Account // 1301
	Payable    domain.Account // 2101
	Capital    domain.Account // 3101
	Sales      domain.Account // 4101
	Purchases  domain.Account // 5101
}

// Day returns midnight UTC of the given January 2024 day.
func Day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

// SeedLedger creates the company and its accounts in a fresh memory store.
func SeedLedger(t testing.TB) *Ledger {
	t.Helper()
	ctx := context.Background()
	store := NewMemoryStore()
	audit := domain.NewAuditFields(UserID, Day(1))

	company := domain.Company{CompanyID: CompanyID, Name: "Acme AB", BaseCurrencyCode: BaseCurrency, IsActive: true, AuditFields: audit}
	if err := store.SaveCompany(ctx, company); err != nil {
		t.Fatalf("seed company: %v", err)
	}

	mk := func(code, name string, typ domain.AccountType, currency string) domain.Account {
		acc := domain.Account{
			AccountID:    uuid.NewString(),
			CompanyID:    CompanyID,
			Code:         code,
			Name:         name,
			AccountType:  typ,
			CurrencyCode: currency,
			IsActive:     true,
			AuditFields:  audit,
		}
		if err := store.SaveAccount(ctx, acc); err != nil {
			t.Fatalf("seed account %s: %v", code, err)
		}
		return acc
	}

	return &Ledger{
		Store:      store,
		Company:    company,
		Cash:       mk("1101", "Cash", domain.Asset, BaseCurrency),
		BankEUR:    mk("1201", "Bank EUR", domain.Asset, "EUR"),
		Receivable: mk("1301", "Customer receivables", domain.Asset, BaseCurrency),
		Payable:    mk("2101", "Supplier payables", domain.Liability, BaseCurrency),
		Capital:    mk("3101", "Share capital", domain.Equity, BaseCurrency),
		Sales:      mk("4101", "Sales", domain.Revenue, BaseCurrency),
		Purchases:  mk("5101", "Purchases", domain.Expense, BaseCurrency),
	}
}

// Debit builds a base-currency debit line.
func Debit(accountID string, amount string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, DebitAmount: decimal.RequireFromString(amount)}
}

// Credit builds a base-currency credit line.
func Credit(accountID string, amount string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, CreditAmount: decimal.RequireFromString(amount)}
}

// Foreign attaches a foreign amount and rate to a line.
func Foreign(line domain.JournalLine, amount, rate string) domain.JournalLine {
	f := decimal.RequireFromString(amount)
	r := decimal.RequireFromString(rate)
	line.ForeignAmount = &f
	line.ExchangeRate = &r
	return line
}

// EntrySpec describes an entry written straight into the store, the way the
// invoicing procedure writes them.
type EntrySpec struct {
	CreatedAt     time.Time
	EntryDate     time.Time
	Description   string
	InvoiceID     string
	ReferenceType domain.ReferenceType
	Status        domain.EntryStatus
	Lines         []domain.JournalLine
}

// Post stores an entry and applies its balance changes.
func (l *Ledger) Post(t testing.TB, spec EntrySpec) domain.JournalEntry {
	t.Helper()
	if spec.Status == "" {
		spec.Status = domain.Posted
	}
	if spec.EntryDate.IsZero() {
		spec.EntryDate = spec.CreatedAt.Truncate(24 * time.Hour)
	}

	entry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		CompanyID:     CompanyID,
		EntryDate:     spec.EntryDate,
		Description:   spec.Description,
		Status:        spec.Status,
		ReferenceType: spec.ReferenceType,
		AuditFields:   domain.NewAuditFields(UserID, spec.CreatedAt),
	}
	if spec.InvoiceID != "" {
		id := spec.InvoiceID
		entry.SourceInvoiceID = &id
	}

	types := make(map[string]domain.AccountType)
	for i, line := range spec.Lines {
		acc, err := l.Store.FindAccountByID(context.Background(), line.AccountID)
		if err != nil {
			t.Fatalf("post entry: %v", err)
		}
		line.LineID = uuid.NewString()
		line.EntryID = entry.EntryID
		line.LineNumber = i + 1
		line.CurrencyCode = acc.CurrencyCode
		entry.Lines = append(entry.Lines, line)
		types[acc.AccountID] = acc.AccountType
	}

	changes := map[string]decimal.Decimal{}
	if entry.Status == domain.Posted {
		var err error
		if changes, err = accounting.BalanceChanges(entry.Lines, types); err != nil {
			t.Fatalf("post entry: %v", err)
		}
	}
	if err := l.Store.SaveEntry(context.Background(), entry, changes); err != nil {
		t.Fatalf("post entry: %v", err)
	}
	return entry
}

// AddInvoice stores a purchase invoice.
func (l *Ledger) AddInvoice(number string, method domain.PaymentMethod, amount string, issued time.Time) domain.PurchaseInvoice {
	inv := domain.PurchaseInvoice{
		InvoiceID:     uuid.NewString(),
		CompanyID:     CompanyID,
		InvoiceNumber: number,
		SupplierName:  "Supplier " + number,
		IssueDate:     issued,
		PaymentMethod: method,
		TotalAmount:   decimal.RequireFromString(amount),
		CurrencyCode:  BaseCurrency,
		ExchangeRate:  decimal.NewFromInt(1),
		CreatedAt:     issued,
	}
	l.Store.AddInvoice(inv)
	return inv
}

// PurchaseScenario holds the invoices seeded by SeedPurchaseScenario.
type PurchaseScenario struct {
	Misrouted  domain.PurchaseInvoice // PUR-1001, cash, payment booked to payables
	Duplicated domain.PurchaseInvoice // PUR-1002, credit, posted twice
	Correct    domain.PurchaseInvoice // PUR-1003, cash, booked correctly
	Original   domain.JournalEntry    // first PUR-1002 posting
	Duplicate  domain.JournalEntry    // second PUR-1002 posting
}

// SeedPurchaseScenario writes the two known defects plus one healthy invoice.
func (l *Ledger) SeedPurchaseScenario(t testing.TB) PurchaseScenario {
	t.Helper()
	var s PurchaseScenario

	s.Misrouted = l.AddInvoice("PUR-1001", domain.PaymentCash, "1000", Day(5))
	l.Post(t, EntrySpec{
		CreatedAt:   Day(5).Add(9 * time.Hour),
		Description: "Purchase invoice PUR-1001",
		InvoiceID:   s.Misrouted.InvoiceID,
		Lines:       []domain.JournalLine{Debit(l.Purchases.AccountID, "1000"), Credit(l.Payable.AccountID, "1000")},
	})

	s.Duplicated = l.AddInvoice("PUR-1002", domain.PaymentCredit, "500", Day(6))
	s.Original = l.Post(t, EntrySpec{
		CreatedAt:   Day(6).Add(9 * time.Hour),
		Description: "Purchase invoice PUR-1002",
		InvoiceID:   s.Duplicated.InvoiceID,
		Lines:       []domain.JournalLine{Debit(l.Purchases.AccountID, "500"), Credit(l.Payable.AccountID, "500")},
	})
	s.Duplicate = l.Post(t, EntrySpec{
		CreatedAt:   Day(6).Add(9*time.Hour + time.Minute),
		Description: "Purchase invoice PUR-1002",
		InvoiceID:   s.Duplicated.InvoiceID,
		Lines:       []domain.JournalLine{Debit(l.Purchases.AccountID, "500"), Credit(l.Payable.AccountID, "500")},
	})

	s.Correct = l.AddInvoice("PUR-1003", domain.PaymentCash, "200", Day(7))
	l.Post(t, EntrySpec{
		CreatedAt:   Day(7).Add(9 * time.Hour),
		Description: "Purchase invoice PUR-1003",
		InvoiceID:   s.Correct.InvoiceID,
		Lines:       []domain.JournalLine{Debit(l.Purchases.AccountID, "200"), Credit(l.Cash.AccountID, "200")},
	})

	return s
}
