package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseInvoice is a row of purchase_invoices. The table is written by the
// invoicing procedure; the ledger only reads it.
type PurchaseInvoice struct {
	InvoiceID     string          `db:"invoice_id"`
	CompanyID     string          `db:"company_id"`
	InvoiceNumber string          `db:"invoice_number"`
	SupplierName  string          `db:"supplier_name"`
	IssueDate     time.Time       `db:"issue_date"`
	PaymentMethod string          `db:"payment_method"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	CurrencyCode  string          `db:"currency_code"`
	ExchangeRate  decimal.Decimal `db:"exchange_rate"`
	CreatedAt     time.Time       `db:"created_at"`
}
