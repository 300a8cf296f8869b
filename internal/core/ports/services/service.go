package services

// ServiceContainer holds instances of all the application services.
// Handlers and the ledgerctl commands reach the core through it.
type ServiceContainer struct {
	Company        CompanySvcFacade
	Account        AccountSvcFacade
	CurrencyRate   CurrencyRateSvcFacade
	Journal        JournalSvcFacade
	Reporting      ReportingService
	Reconciliation ReconciliationService
}
