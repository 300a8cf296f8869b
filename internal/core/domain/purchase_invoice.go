package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a purchase invoice was settled.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
)

// PurchaseInvoice is the read-only view of an invoice written by the invoicing
// procedure. The ledger never mutates invoices.
type PurchaseInvoice struct {
	InvoiceID     string          `json:"invoiceID"`
	CompanyID     string          `json:"companyID"`
	InvoiceNumber string          `json:"invoiceNumber"` // Unique per company, e.g. "PUR-1001"
	SupplierName  string          `json:"supplierName"`
	IssueDate     time.Time       `json:"issueDate"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	CreatedAt     time.Time       `json:"createdAt"`
}
