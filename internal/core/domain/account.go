package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a node of a company's chart of accounts.
// Code is unique per company and is the stable key callers resolve by.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary Key (e.g., UUID)
	CompanyID       string          `json:"companyID"`       // FK -> companies.company_id (NON-NULL)
	Code            string          `json:"code"`            // Unique per company, e.g. "1101"
	Name            string          `json:"name"`            // User-defined name
	AccountType     AccountType     `json:"accountType"`     // Immutable once the account has postings
	CurrencyCode    string          `json:"currencyCode"`    // Currency the account is denominated in
	ParentAccountID string          `json:"parentAccountID"` // Empty for roots
	Description     string          `json:"description"`
	IsSystem        bool            `json:"isSystem"` // Created by the engine, not by a user
	IsActive        bool            `json:"isActive"`
	AuditFields                     // Embed CreatedAt, CreatedBy, etc.
	Balance         decimal.Decimal `json:"balance"` // Cached, advisory only; reports recompute from lines
}

// ChildAccountSpec describes a child account EnsureChildAccounts should create
// when no child with the same key exists under the parent.
type ChildAccountSpec struct {
	Key          string `json:"key"` // Currency code the child is keyed by
	Name         string `json:"name"`
	Code         string `json:"code"` // Optional; defaults to "<parentCode>-<Key>"
	CurrencyCode string `json:"currencyCode"`
}
