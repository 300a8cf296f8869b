package pgsql

import (
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		CompanyRepo:      newPgxCompanyRepository(dbPool),
		AccountRepo:      accountRepo,
		CurrencyRateRepo: newPgxCurrencyRateRepository(dbPool),
		JournalRepo:      journalRepo,
		InvoiceRepo:      newPgxInvoiceRepository(dbPool),
		ReportingRepo:    newReportingRepository(dbPool),
	}
}
