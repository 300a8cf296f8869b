package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// CompanyReader defines read operations for tenant companies.
type CompanyReader interface {
	// FindCompanyByID returns ErrNotFound for an unknown company.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompanies returns every company ordered by name.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// CompanyWriter defines write operations for tenant companies.
type CompanyWriter interface {
	SaveCompany(ctx context.Context, company domain.Company) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
