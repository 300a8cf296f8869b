package pgsql

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/models"
	"github.com/SscSPs/erp_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rateColumns = `company_id, currency_code, rate_to_base, operator, effective_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCurrencyRateRepository struct {
	BaseRepository
}

func newPgxCurrencyRateRepository(pool *pgxpool.Pool) portsrepo.CurrencyRateRepositoryFacade {
	return &PgxCurrencyRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CurrencyRateRepositoryFacade = (*PgxCurrencyRateRepository)(nil)

func (r *PgxCurrencyRateRepository) FindRate(ctx context.Context, companyID string, currencyCode string) (*domain.CurrencyRate, error) {
	query := `SELECT ` + rateColumns + ` FROM currency_rates WHERE company_id = $1 AND currency_code = $2;`
	rows, err := r.Pool.Query(ctx, query, companyID, currencyCode)
	if err != nil {
		return nil, translateError(err, "find rate "+currencyCode)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CurrencyRate])
	if err != nil {
		return nil, translateError(err, "rate "+currencyCode)
	}
	rate := mapping.ToDomainCurrencyRate(m)
	return &rate, nil
}

func (r *PgxCurrencyRateRepository) ListRates(ctx context.Context, companyID string) ([]domain.CurrencyRate, error) {
	query := `SELECT ` + rateColumns + ` FROM currency_rates WHERE company_id = $1 ORDER BY currency_code;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, translateError(err, "list rates of company "+companyID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CurrencyRate])
	if err != nil {
		return nil, translateError(err, "scan rates")
	}
	rates := make([]domain.CurrencyRate, len(ms))
	for i, m := range ms {
		rates[i] = mapping.ToDomainCurrencyRate(m)
	}
	return rates, nil
}

// SaveRate upserts; the original creation audit columns survive a replacement.
func (r *PgxCurrencyRateRepository) SaveRate(ctx context.Context, rate domain.CurrencyRate) error {
	m := mapping.ToModelCurrencyRate(rate)
	query := `
		INSERT INTO currency_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (company_id, currency_code) DO UPDATE
		SET rate_to_base = EXCLUDED.rate_to_base,
			operator = EXCLUDED.operator,
			effective_at = EXCLUDED.effective_at,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CompanyID, m.CurrencyCode, m.RateToBase, m.Operator, m.EffectiveAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return translateError(err, "save rate "+m.CurrencyCode)
}
