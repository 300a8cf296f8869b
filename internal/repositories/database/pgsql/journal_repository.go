package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/models"
	"github.com/SscSPs/erp_ledger/internal/utils/mapping"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, company_id, entry_date, description, status, reference_type, source_invoice_id,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, debit_amount, credit_amount,
	description, currency_code, foreign_amount, exchange_rate`

// systemUser stamps balance updates that have no acting user, such as voids.
const systemUser = "system"

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountBalanceUpdater
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountBalanceUpdater) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// SaveEntry saves an entry header, updates account balances and inserts the lines within a DB transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	// 1. Header
	m := mapping.ToModelJournalEntry(entry)
	headerQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.EntryID, m.CompanyID, m.EntryDate, m.Description, string(m.Status), m.ReferenceType, m.SourceInvoiceID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "insert journal entry "+m.EntryID)
	}

	// 2. Balances
	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, entry.CreatedBy, entry.CreatedAt); err != nil {
		return fmt.Errorf("%w: entry %s: %w", apperrors.ErrPartialWrite, m.EntryID, err)
	}

	// 3. Lines
	if err := r.insertLines(ctx, tx, entry.Lines); err != nil {
		return fmt.Errorf("%w: entry %s: %w", apperrors.ErrPartialWrite, m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) applyBalanceChanges(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, at time.Time) error {
	if len(changes) == 0 {
		return nil
	}
	accountIDs := make([]string, 0, len(changes))
	for id := range changes {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, at)
}

func (r *PgxJournalRepository) insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(query,
			l.LineID, l.EntryID, l.LineNumber, l.AccountID, l.DebitAmount, l.CreditAmount,
			l.Description, l.CurrencyCode, l.ForeignAmount, l.ExchangeRate,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for _, line := range lines {
		if _, err := br.Exec(); err != nil {
			return translateError(err, fmt.Sprintf("insert line %d", line.LineNumber))
		}
	}
	return nil
}

// DeleteEntry removes the lines, then the header, and applies balanceChanges.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return translateError(err, "delete lines of entry "+entryID)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return translateError(err, "delete entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}

	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, systemUser, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to reverse balances of entry %s: %w", entryID, err)
	}
	return r.Commit(ctx, tx)
}

// LinkSourceInvoice only touches entries that are still unlinked.
func (r *PgxJournalRepository) LinkSourceInvoice(ctx context.Context, entryID string, invoiceID string, userID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET source_invoice_id = $2,
			last_updated_at = $3,
			last_updated_by = $4
		WHERE entry_id = $1 AND source_invoice_id IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, invoiceID, at, userID)
	if err != nil {
		return translateError(err, "link entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: unlinked entry %s", apperrors.ErrNotFound, entryID)
	}
	return nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entries, err := r.queryEntries(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}
	return &entries[0], nil
}

func (r *PgxJournalRepository) FindEntriesBySourceInvoice(ctx context.Context, companyID string, invoiceID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND source_invoice_id = $2
		ORDER BY created_at, entry_id;
	`
	return r.queryEntries(ctx, query, companyID, invoiceID)
}

func (r *PgxJournalRepository) ListUnlinkedEntries(ctx context.Context, companyID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND source_invoice_id IS NULL
		ORDER BY created_at, entry_id;
	`
	return r.queryEntries(ctx, query, companyID)
}

// ListEntriesByCompany lists newest first, keyed on (entry_date, created_at, entry_id).
func (r *PgxJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{companyID}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1`

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at, entry_id) < ($2, $3, $4)`
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
	}

	// Fetch one extra row to know whether another page exists
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	entries, err := r.queryEntries(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) <= limit {
		return entries, nil, nil
	}

	entries = entries[:limit]
	last := entries[len(entries)-1]
	token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
	return entries, &token, nil
}

// queryEntries runs a header query and attaches the lines of every returned entry.
func (r *PgxJournalRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "query journal entries")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, translateError(err, "scan journal entries")
	}
	if len(ms) == 0 {
		return []domain.JournalEntry{}, nil
	}

	entries := make([]domain.JournalEntry, len(ms))
	ids := make([]string, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m)
		ids[i] = m.EntryID
	}

	lineRows, err := r.Pool.Query(ctx, `
		SELECT `+lineColumns+`
		FROM journal_entry_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_number;
	`, ids)
	if err != nil {
		return nil, translateError(err, "query journal lines")
	}
	lines, err := pgx.CollectRows(lineRows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, translateError(err, "scan journal lines")
	}

	byEntry := make(map[string][]domain.JournalLine, len(entries))
	for _, l := range lines {
		byEntry[l.EntryID] = append(byEntry[l.EntryID], mapping.ToDomainJournalLine(l))
	}
	for i := range entries {
		entries[i].Lines = byEntry[entries[i].EntryID]
	}
	return entries, nil
}
