package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account represents a row of the accounts table.
type Account struct {
	AccountID       string          `db:"account_id"`
	CompanyID       string          `db:"company_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	CurrencyCode    string          `db:"currency_code"`
	ParentAccountID *string         `db:"parent_account_id"` // Nullable
	Description     string          `db:"description"`
	IsSystem        bool            `db:"is_system"`
	IsActive        bool            `db:"is_active"`
	AuditFields                     // Embed common audit fields
	Balance         decimal.Decimal `db:"balance"`
}

// AccountRole is a row of company_account_roles.
type AccountRole struct {
	CompanyID   string `db:"company_id"`
	Role        string `db:"role"`
	AccountCode string `db:"account_code"`
	AuditFields
}
