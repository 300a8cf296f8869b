package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/models"
	"github.com/SscSPs/erp_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, company_id, code, name, account_type, currency_code, parent_account_id,
	description, is_system, is_active, created_at, created_by, last_updated_at, last_updated_by, balance`

const roleColumns = `company_id, role, account_code, created_at, created_by, last_updated_at, last_updated_by`

// PgxAccountRepository implements the account and role ports using pgx.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.CompanyID, m.Code, m.Name, string(m.AccountType), m.CurrencyCode, m.ParentAccountID,
		m.Description, m.IsSystem, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Balance,
	)
	return translateError(err, fmt.Sprintf("save account %s in company %s", m.Code, m.CompanyID))
}

func (r *PgxAccountRepository) collectAccounts(rows pgx.Rows, what string) ([]domain.Account, error) {
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateError(err, what)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func (r *PgxAccountRepository) findOne(ctx context.Context, what string, query string, args ...any) (*domain.Account, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateError(err, what)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return r.findOne(ctx, "account "+accountID, query, accountID)
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND code = $2;`
	return r.findOne(ctx, "account code "+code, query, companyID, code)
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, translateError(err, "find accounts by ids")
	}
	accounts, err := r.collectAccounts(rows, "scan accounts")
	if err != nil {
		return nil, err
	}
	return indexAccounts(accounts), nil
}

func indexAccounts(accounts []domain.Account) map[string]domain.Account {
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a
	}
	return byID
}

func (r *PgxAccountRepository) ListAccountsByCompany(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1
		ORDER BY code
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, translateError(err, "list accounts of company "+companyID)
	}
	return r.collectAccounts(rows, "scan accounts")
}

func (r *PgxAccountRepository) ListActiveAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND is_active ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, translateError(err, "list active accounts of company "+companyID)
	}
	return r.collectAccounts(rows, "scan accounts")
}

func (r *PgxAccountRepository) ListChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE parent_account_id = $1 ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, parentAccountID)
	if err != nil {
		return nil, translateError(err, "list children of account "+parentAccountID)
	}
	return r.collectAccounts(rows, "scan accounts")
}

func (r *PgxAccountRepository) FindRoleMapping(ctx context.Context, companyID string, role domain.AccountRole) (*domain.AccountRoleMapping, error) {
	query := `SELECT ` + roleColumns + ` FROM company_account_roles WHERE company_id = $1 AND role = $2;`
	rows, err := r.Pool.Query(ctx, query, companyID, string(role))
	if err != nil {
		return nil, translateError(err, "find role mapping "+string(role))
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.AccountRole])
	if err != nil {
		return nil, translateError(err, "role mapping "+string(role))
	}
	rm := mapping.ToDomainAccountRole(m)
	return &rm, nil
}

func (r *PgxAccountRepository) SaveRoleMapping(ctx context.Context, rm domain.AccountRoleMapping) error {
	m := mapping.ToModelAccountRole(rm)
	query := `
		INSERT INTO company_account_roles (` + roleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, role) DO UPDATE
		SET account_code = EXCLUDED.account_code,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.Role, m.AccountCode, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return translateError(err, "save role mapping "+m.Role)
}

// FindAccountsByIDsForUpdate locks the rows in account_id order so concurrent
// postings touching the same accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, translateError(err, "lock accounts")
	}
	accounts, err := r.collectAccounts(rows, "scan locked accounts")
	if err != nil {
		return nil, err
	}
	return indexAccounts(accounts), nil
}

func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, at time.Time) error {
	if len(changes) == 0 {
		return nil
	}
	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $2,
			last_updated_at = $3,
			last_updated_by = $4
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	ids := make([]string, 0, len(changes))
	for id, change := range changes {
		batch.Queue(query, id, change, at, userID)
		ids = append(ids, id)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for _, id := range ids {
		tag, err := br.Exec()
		if err != nil {
			return translateError(err, "update balance of account "+id)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return nil
}
