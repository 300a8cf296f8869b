package pgsql

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/models"
	"github.com/SscSPs/erp_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `invoice_id, company_id, invoice_number, supplier_name, issue_date,
	payment_method, total_amount, currency_code, exchange_rate, created_at`

// PgxInvoiceRepository reads purchase invoices. It has no write methods.
type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.PurchaseInvoiceReader {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PurchaseInvoiceReader = (*PgxInvoiceRepository)(nil)

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE invoice_id = $1;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, translateError(err, "find invoice "+invoiceID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.PurchaseInvoice])
	if err != nil {
		return nil, translateError(err, "invoice "+invoiceID)
	}
	inv := mapping.ToDomainPurchaseInvoice(m)
	return &inv, nil
}

func (r *PgxInvoiceRepository) ListInvoicesByCompany(ctx context.Context, companyID string, method *domain.PaymentMethod) ([]domain.PurchaseInvoice, error) {
	var methodArg *string
	if method != nil {
		s := string(*method)
		methodArg = &s
	}
	query := `
		SELECT ` + invoiceColumns + `
		FROM purchase_invoices
		WHERE company_id = $1
		  AND ($2::text IS NULL OR payment_method = $2)
		ORDER BY issue_date, invoice_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, methodArg)
	if err != nil {
		return nil, translateError(err, "list invoices of company "+companyID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PurchaseInvoice])
	if err != nil {
		return nil, translateError(err, "scan invoices")
	}
	invoices := make([]domain.PurchaseInvoice, len(ms))
	for i, m := range ms {
		invoices[i] = mapping.ToDomainPurchaseInvoice(m)
	}
	return invoices, nil
}
