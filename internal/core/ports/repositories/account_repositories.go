package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves the account holding code within a company.
	FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are simply absent.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByCompany retrieves a page of accounts ordered by code.
	ListAccountsByCompany(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)

	// ListActiveAccounts retrieves every active account of a company ordered by code.
	ListActiveAccounts(ctx context.Context, companyID string) ([]domain.Account, error)

	// ListChildAccounts retrieves the direct children of an account.
	ListChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount inserts a new account. A code already used in the company yields ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRoleStore persists the role -> account code mapping of each company.
type AccountRoleStore interface {
	// FindRoleMapping returns ErrNotFound when the company has no mapping for role.
	FindRoleMapping(ctx context.Context, companyID string, role domain.AccountRole) (*domain.AccountRoleMapping, error)

	// SaveRoleMapping inserts or replaces the mapping for (company, role).
	SaveRoleMapping(ctx context.Context, mapping domain.AccountRoleMapping) error
}

// AccountBalanceUpdater is used by the journal repository inside its own transaction.
type AccountBalanceUpdater interface {
	// FindAccountsByIDsForUpdate locks the given accounts for the rest of tx.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx adds each change to the cached balance of its account.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, at time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountRoleStore
}

// AccountRepositoryWithTx adds the in-transaction balance operations.
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	AccountBalanceUpdater
}
