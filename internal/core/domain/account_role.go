package domain

// AccountRole names an account the engine needs to locate without user input.
type AccountRole string

const (
	RolePrimaryCash        AccountRole = "primary_cash"
	RoleSupplierPayable    AccountRole = "supplier_payable"
	RoleCustomerReceivable AccountRole = "customer_receivable"
	RolePurchases          AccountRole = "purchases"
	RoleSales              AccountRole = "sales"
)

// AccountRoles lists every role in a stable order.
var AccountRoles = []AccountRole{
	RolePrimaryCash,
	RoleSupplierPayable,
	RoleCustomerReceivable,
	RolePurchases,
	RoleSales,
}

// RoleHint is the fallback used when a company has no explicit mapping for a role.
type RoleHint struct {
	Keywords    []string
	AccountType AccountType
}

var roleHints = map[AccountRole]RoleHint{
	RolePrimaryCash:        {Keywords: []string{"cash", "treasury"}, AccountType: Asset},
	RoleSupplierPayable:    {Keywords: []string{"supplier", "payable", "vendor"}, AccountType: Liability},
	RoleCustomerReceivable: {Keywords: []string{"customer", "receivable"}, AccountType: Asset},
	RolePurchases:          {Keywords: []string{"purchase"}, AccountType: Expense},
	RoleSales:              {Keywords: []string{"sales", "revenue"}, AccountType: Revenue},
}

// Hint returns the name keywords and account type associated with r.
func (r AccountRole) Hint() (RoleHint, bool) {
	h, ok := roleHints[r]
	return h, ok
}

// IsValid reports whether r is a known role.
func (r AccountRole) IsValid() bool {
	_, ok := roleHints[r]
	return ok
}

// AccountRoleMapping pins a role to an account code for one company.
type AccountRoleMapping struct {
	CompanyID   string      `json:"companyID"`
	Role        AccountRole `json:"role"`
	AccountCode string      `json:"accountCode"`
	AuditFields
}
