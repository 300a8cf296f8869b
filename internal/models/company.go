package models

// Company represents a row of the companies table.
type Company struct {
	CompanyID        string `db:"company_id"`
	Name             string `db:"name"`
	BaseCurrencyCode string `db:"base_currency_code"`
	IsActive         bool   `db:"is_active"`
	AuditFields
}
