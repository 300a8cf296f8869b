package domain

// Company is the tenant owning one ledger. Every account, entry and invoice is
// scoped to exactly one company.
type Company struct {
	CompanyID        string `json:"companyID"`        // Primary Key (e.g., UUID)
	Name             string `json:"name"`             // Display name
	BaseCurrencyCode string `json:"baseCurrencyCode"` // All debit/credit amounts are booked in this currency
	IsActive         bool   `json:"isActive"`
	AuditFields
}
