package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,max=32"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode    string             `json:"currencyCode" binding:"omitempty,iso4217"` // Defaults to the company base currency
	ParentAccountID *string            `json:"parentAccountID"`
	Description     string             `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	CurrencyCode    string             `json:"currencyCode"`
	ParentAccountID string             `json:"parentAccountID"`
	Description     string             `json:"description"`
	IsSystem        bool               `json:"isSystem"`
	IsActive        bool               `json:"isActive"`
	Balance         decimal.Decimal    `json:"balance"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		CurrencyCode:    acc.CurrencyCode,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsSystem:        acc.IsSystem,
		IsActive:        acc.IsActive,
		Balance:         acc.Balance,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// SetAccountRoleRequest pins a well-known role to an account code.
type SetAccountRoleRequest struct {
	AccountCode string `json:"accountCode" binding:"required"`
}

// AccountRoleResponse is the resolved account for a role.
type AccountRoleResponse struct {
	Role    domain.AccountRole `json:"role"`
	Account AccountResponse    `json:"account"`
}

// EnsureChildAccountsRequest lists the per-currency children a parent should have.
type EnsureChildAccountsRequest struct {
	Children []ChildAccountRequest `json:"children" binding:"required,min=1,dive"`
}

// ChildAccountRequest describes one desired child account.
type ChildAccountRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,iso4217"`
	Name         string `json:"name" binding:"required"`
	Code         string `json:"code"`
}

// ToChildAccountSpecs converts the request into domain specs keyed by currency.
func (r EnsureChildAccountsRequest) ToChildAccountSpecs() []domain.ChildAccountSpec {
	specs := make([]domain.ChildAccountSpec, len(r.Children))
	for i, c := range r.Children {
		specs[i] = domain.ChildAccountSpec{
			Key:          c.CurrencyCode,
			Name:         c.Name,
			Code:         c.Code,
			CurrencyCode: c.CurrencyCode,
		}
	}
	return specs
}

// EnsureChildAccountsResponse lists only the children created by the call.
type EnsureChildAccountsResponse struct {
	Created []AccountResponse `json:"created"`
}
