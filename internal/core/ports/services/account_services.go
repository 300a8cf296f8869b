package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account belonging to the company.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// GetAccountByIDs retrieves multiple accounts by their IDs, keyed by ID.
	GetAccountByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)

	// FindByCode resolves an account by its chart-of-accounts code.
	FindByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// EnsureChildAccounts creates the missing per-key children of a parent
	// account and returns only the ones it created.
	EnsureChildAccounts(ctx context.Context, companyID string, parentCode string, children []domain.ChildAccountSpec, userID string) ([]domain.Account, error)
}

// AccountRegistrySvc resolves the well-known accounts other components rely on.
type AccountRegistrySvc interface {
	// FindWellKnown returns the account that plays the given role for the company.
	FindWellKnown(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error)

	// SetRoleMapping pins a role to an account code.
	SetRoleMapping(ctx context.Context, companyID string, role domain.AccountRole, accountCode string, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountRegistrySvc
}
