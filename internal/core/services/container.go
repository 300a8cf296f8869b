package services

import (
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Company service first since every other service authorizes through it
	container.Company = NewCompanyService(repos.CompanyRepo)
	authorizer := container.Company

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithAccountCompanyAuthorizer(authorizer),
		WithRoleDefaults(cfg.RoleAccountCodes),
	)

	container.CurrencyRate = NewCurrencyRateService(repos.CurrencyRateRepo, authorizer)

	container.Journal = NewJournalService(
		repos.JournalRepo,
		container.Account,
		authorizer,
		WithEntryTolerance(cfg.EntryBalanceTolerance),
		WithLineRates(repos.CurrencyRateRepo),
	)

	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.CurrencyRateRepo,
		authorizer,
		WithReportSettings(ReportSettings{
			StatementTolerance: cfg.ReportBalanceTolerance,
			RoundingPlaces:     cfg.ReportRoundingPlaces,
		}),
	)

	container.Reconciliation = NewReconciliationService(
		container.Account,
		container.Journal,
		repos.JournalRepo,
		repos.InvoiceRepo,
		authorizer,
		WithConcurrency(cfg.ReconcileConcurrency),
		WithLinkBackfill(cfg.ReconcileBackfillLinks),
	)

	return container
}
