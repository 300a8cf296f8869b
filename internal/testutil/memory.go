package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
)

// MemoryStore is an in-memory implementation of every repository port. It
// mirrors the constraints of the Postgres schema that services rely on: unique
// account codes, one correction per invoice and atomic entry writes.
type MemoryStore struct {
	mu        sync.Mutex
	companies map[string]domain.Company
	accounts  map[string]domain.Account
	roles     map[string]domain.AccountRoleMapping
	rates     map[string]domain.CurrencyRate
	invoices  map[string]domain.PurchaseInvoice
	entries   map[string]domain.JournalEntry

	// FailLineWrite, when set, makes SaveEntry fail with ErrPartialWrite for
	// matching entries, after nothing has been kept.
	FailLineWrite func(entry domain.JournalEntry) bool
	// DeleteCalls records every DeleteEntry call by entry ID.
	DeleteCalls []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		companies: make(map[string]domain.Company),
		accounts:  make(map[string]domain.Account),
		roles:     make(map[string]domain.AccountRoleMapping),
		rates:     make(map[string]domain.CurrencyRate),
		invoices:  make(map[string]domain.PurchaseInvoice),
		entries:   make(map[string]domain.JournalEntry),
	}
}

var (
	_ portsrepo.CompanyRepositoryFacade      = (*MemoryStore)(nil)
	_ portsrepo.AccountRepositoryFacade      = (*MemoryStore)(nil)
	_ portsrepo.CurrencyRateRepositoryFacade = (*MemoryStore)(nil)
	_ portsrepo.JournalRepositoryWithTx      = (*MemoryStore)(nil)
	_ portsrepo.PurchaseInvoiceReader        = (*MemoryStore)(nil)
	_ portsrepo.ReportingRepository          = (*MemoryStore)(nil)
)

// Repositories exposes the store as a repository provider.
func (m *MemoryStore) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:      m,
		AccountRepo:      m,
		CurrencyRateRepo: m,
		JournalRepo:      m,
		InvoiceRepo:      m,
		ReportingRepo:    m,
	}
}

func key(parts ...string) string { return strings.Join(parts, "|") }

// --- companies ---

func (m *MemoryStore) SaveCompany(_ context.Context, company domain.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[company.CompanyID]; ok {
		return fmt.Errorf("%w: company %s", apperrors.ErrDuplicate, company.CompanyID)
	}
	m.companies[company.CompanyID] = company
	return nil
}

func (m *MemoryStore) FindCompanyByID(_ context.Context, companyID string) (*domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[companyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) ListCompanies(_ context.Context) ([]domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- accounts ---

func (m *MemoryStore) SaveAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.CompanyID == account.CompanyID && a.Code == account.Code {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *MemoryStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStore) FindAccountByCode(_ context.Context, companyID string, code string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.CompanyID == companyID && a.Code == code {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *MemoryStore) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := m.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (m *MemoryStore) sortedAccounts(keep func(domain.Account) bool) []domain.Account {
	out := make([]domain.Account, 0)
	for _, a := range m.accounts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (m *MemoryStore) ListAccountsByCompany(_ context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedAccounts(func(a domain.Account) bool { return a.CompanyID == companyID })
	if offset >= len(all) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MemoryStore) ListActiveAccounts(_ context.Context, companyID string) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedAccounts(func(a domain.Account) bool { return a.CompanyID == companyID && a.IsActive }), nil
}

func (m *MemoryStore) ListChildAccounts(_ context.Context, parentAccountID string) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedAccounts(func(a domain.Account) bool { return a.ParentAccountID == parentAccountID }), nil
}

func (m *MemoryStore) FindRoleMapping(_ context.Context, companyID string, role domain.AccountRole) (*domain.AccountRoleMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[key(companyID, string(role))]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStore) SaveRoleMapping(_ context.Context, mapping domain.AccountRoleMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[key(mapping.CompanyID, string(mapping.Role))] = mapping
	return nil
}

// Balance returns the cached balance of an account.
func (m *MemoryStore) Balance(accountID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[accountID].Balance
}

// --- currency rates ---

func (m *MemoryStore) FindRate(_ context.Context, companyID string, currencyCode string) (*domain.CurrencyRate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rates[key(companyID, currencyCode)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStore) ListRates(_ context.Context, companyID string) ([]domain.CurrencyRate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CurrencyRate, 0)
	for _, r := range m.rates {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (m *MemoryStore) SaveRate(_ context.Context, rate domain.CurrencyRate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[key(rate.CompanyID, rate.CurrencyCode)] = rate
	return nil
}

// --- invoices ---

// AddInvoice stores an invoice as the external invoicing procedure would.
func (m *MemoryStore) AddInvoice(inv domain.PurchaseInvoice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[inv.InvoiceID] = inv
}

func (m *MemoryStore) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.PurchaseInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[invoiceID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &inv, nil
}

func (m *MemoryStore) ListInvoicesByCompany(_ context.Context, companyID string, method *domain.PaymentMethod) ([]domain.PurchaseInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PurchaseInvoice, 0)
	for _, inv := range m.invoices {
		if inv.CompanyID != companyID || (method != nil && inv.PaymentMethod != *method) {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.Before(out[j].IssueDate)
		}
		return out[i].InvoiceNumber < out[j].InvoiceNumber
	})
	return out, nil
}

// --- journal ---

func (m *MemoryStore) SaveEntry(_ context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entry.EntryID]; ok {
		return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	if entry.ReferenceType == domain.ReferenceCorrection && entry.SourceInvoiceID != nil {
		for _, e := range m.entries {
			if e.CompanyID == entry.CompanyID && e.ReferenceType == domain.ReferenceCorrection &&
				e.SourceInvoiceID != nil && *e.SourceInvoiceID == *entry.SourceInvoiceID {
				return fmt.Errorf("%w: correction for invoice %s", apperrors.ErrDuplicate, *entry.SourceInvoiceID)
			}
		}
	}
	if m.FailLineWrite != nil && m.FailLineWrite(entry) {
		return fmt.Errorf("%w: line insert failed for entry %s", apperrors.ErrPartialWrite, entry.EntryID)
	}
	for id := range balanceChanges {
		if _, ok := m.accounts[id]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}

	m.applyChanges(balanceChanges, entry.CreatedBy, entry.CreatedAt)
	entry.Lines = append([]domain.JournalLine(nil), entry.Lines...)
	m.entries[entry.EntryID] = entry
	return nil
}

func (m *MemoryStore) applyChanges(changes map[string]decimal.Decimal, userID string, at time.Time) {
	for id, change := range changes {
		a := m.accounts[id]
		a.Balance = a.Balance.Add(change)
		a.LastUpdatedAt = at
		a.LastUpdatedBy = userID
		m.accounts[id] = a
	}
}

func (m *MemoryStore) DeleteEntry(_ context.Context, entryID string, balanceChanges map[string]decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, entryID)
	if _, ok := m.entries[entryID]; !ok {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}
	m.applyChanges(balanceChanges, "", time.Now().UTC())
	delete(m.entries, entryID)
	return nil
}

func (m *MemoryStore) LinkSourceInvoice(_ context.Context, entryID string, invoiceID string, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok || e.SourceInvoiceID != nil {
		return fmt.Errorf("%w: unlinked entry %s", apperrors.ErrNotFound, entryID)
	}
	id := invoiceID
	e.SourceInvoiceID = &id
	e.LastUpdatedAt = at
	e.LastUpdatedBy = userID
	m.entries[entryID] = e
	return nil
}

func (m *MemoryStore) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

// Entries returns every stored entry of a company, oldest first.
func (m *MemoryStore) Entries(companyID string) []domain.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entriesWhere(func(e domain.JournalEntry) bool { return e.CompanyID == companyID })
}

func (m *MemoryStore) entriesWhere(keep func(domain.JournalEntry) bool) []domain.JournalEntry {
	out := make([]domain.JournalEntry, 0)
	for _, e := range m.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out
}

func (m *MemoryStore) FindEntriesBySourceInvoice(_ context.Context, companyID string, invoiceID string) ([]domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entriesWhere(func(e domain.JournalEntry) bool {
		return e.CompanyID == companyID && e.SourceInvoiceID != nil && *e.SourceInvoiceID == invoiceID
	}), nil
}

func (m *MemoryStore) ListUnlinkedEntries(_ context.Context, companyID string) ([]domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entriesWhere(func(e domain.JournalEntry) bool {
		return e.CompanyID == companyID && e.SourceInvoiceID == nil
	}), nil
}

func (m *MemoryStore) ListEntriesByCompany(_ context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	m.mu.Lock()
	all := m.entriesWhere(func(e domain.JournalEntry) bool {
		return e.CompanyID == companyID && (cursor == nil || cursor.After(e.EntryDate, e.CreatedAt, e.EntryID))
	})
	m.mu.Unlock()

	// newest first
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.After(b.EntryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.EntryID > b.EntryID
	})

	if len(all) <= limit {
		return all, nil, nil
	}
	page := all[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
	return page, &token, nil
}

// --- reporting ---

func (m *MemoryStore) ListPostedLines(_ context.Context, companyID string, period domain.DateRange) ([]domain.PostedLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PostedLine, 0)
	for _, e := range m.entriesWhere(func(e domain.JournalEntry) bool {
		return e.CompanyID == companyID && e.Status == domain.Posted && period.Contains(e.EntryDate)
	}) {
		for _, l := range e.Lines {
			acc := m.accounts[l.AccountID]
			out = append(out, domain.PostedLine{
				EntryID:       e.EntryID,
				EntryDate:     e.EntryDate,
				AccountID:     acc.AccountID,
				AccountCode:   acc.Code,
				AccountName:   acc.Name,
				AccountType:   acc.AccountType,
				CurrencyCode:  acc.CurrencyCode,
				DebitAmount:   l.DebitAmount,
				CreditAmount:  l.CreditAmount,
				ForeignAmount: l.ForeignAmount,
			})
		}
	}
	return out, nil
}
