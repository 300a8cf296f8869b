package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// PurchaseInvoiceReader reads the invoices written by the external invoicing procedure.
type PurchaseInvoiceReader interface {
	// FindInvoiceByID returns ErrNotFound for an unknown invoice.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.PurchaseInvoice, error)

	// ListInvoicesByCompany lists invoices ordered by issue date then number.
	// A nil method lists every invoice.
	ListInvoicesByCompany(ctx context.Context, companyID string, method *domain.PaymentMethod) ([]domain.PurchaseInvoice, error)
}
