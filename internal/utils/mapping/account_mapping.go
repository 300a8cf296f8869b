package mapping

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		CompanyID:       d.CompanyID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		CurrencyCode:    d.CurrencyCode,
		ParentAccountID: nullable(d.ParentAccountID),
		Description:     d.Description,
		IsSystem:        d.IsSystem,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
		Balance:         d.Balance,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		CompanyID:       m.CompanyID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		CurrencyCode:    m.CurrencyCode,
		ParentAccountID: deref(m.ParentAccountID),
		Description:     m.Description,
		IsSystem:        m.IsSystem,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
		Balance:         m.Balance,
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelAccountRole converts a role mapping to its row.
func ToModelAccountRole(d domain.AccountRoleMapping) models.AccountRole {
	return models.AccountRole{
		CompanyID:   d.CompanyID,
		Role:        string(d.Role),
		AccountCode: d.AccountCode,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountRole converts a company_account_roles row.
func ToDomainAccountRole(m models.AccountRole) domain.AccountRoleMapping {
	return domain.AccountRoleMapping{
		CompanyID:   m.CompanyID,
		Role:        domain.AccountRole(m.Role),
		AccountCode: m.AccountCode,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
