package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// ListPostedLines retrieves the lines of posted entries within period, joined with their accounts.
func (r *reportingRepository) ListPostedLines(ctx context.Context, companyID string, period domain.DateRange) ([]domain.PostedLine, error) {
	query := `
		SELECT
			e.entry_id,
			e.entry_date,
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			a.currency_code,
			l.debit_amount,
			l.credit_amount,
			l.foreign_amount
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		JOIN accounts a ON l.account_id = a.account_id
		WHERE e.company_id = $1
			AND e.status = 'POSTED'
			AND ($2::date IS NULL OR e.entry_date >= $2::date)
			AND ($3::date IS NULL OR e.entry_date <= $3::date)
		ORDER BY e.entry_date, e.created_at, e.entry_id, l.line_number
	`

	rows, err := r.Pool.Query(ctx, query, companyID, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("error querying posted lines: %w", err)
	}
	defer rows.Close()

	result := make([]domain.PostedLine, 0)
	for rows.Next() {
		var line domain.PostedLine
		var accountType string

		if err := rows.Scan(
			&line.EntryID,
			&line.EntryDate,
			&line.AccountID,
			&line.AccountCode,
			&line.AccountName,
			&accountType,
			&line.CurrencyCode,
			&line.DebitAmount,
			&line.CreditAmount,
			&line.ForeignAmount,
		); err != nil {
			return nil, fmt.Errorf("error scanning posted line: %w", err)
		}

		line.AccountType = domain.AccountType(accountType)
		result = append(result, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted lines: %w", err)
	}
	return result, nil
}
