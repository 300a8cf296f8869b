package mapping

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/models"
)

// ToModelCurrencyRate converts a domain CurrencyRate to its row.
func ToModelCurrencyRate(d domain.CurrencyRate) models.CurrencyRate {
	return models.CurrencyRate{
		CompanyID:    d.CompanyID,
		CurrencyCode: d.CurrencyCode,
		RateToBase:   d.RateToBase,
		Operator:     string(d.Operator),
		EffectiveAt:  d.EffectiveAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrencyRate converts a currency_rates row.
func ToDomainCurrencyRate(m models.CurrencyRate) domain.CurrencyRate {
	return domain.CurrencyRate{
		CompanyID:    m.CompanyID,
		CurrencyCode: m.CurrencyCode,
		RateToBase:   m.RateToBase,
		Operator:     domain.ExchangeOperator(m.Operator),
		EffectiveAt:  m.EffectiveAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPurchaseInvoice converts a purchase_invoices row.
func ToDomainPurchaseInvoice(m models.PurchaseInvoice) domain.PurchaseInvoice {
	return domain.PurchaseInvoice{
		InvoiceID:     m.InvoiceID,
		CompanyID:     m.CompanyID,
		InvoiceNumber: m.InvoiceNumber,
		SupplierName:  m.SupplierName,
		IssueDate:     m.IssueDate,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		TotalAmount:   m.TotalAmount,
		CurrencyCode:  m.CurrencyCode,
		ExchangeRate:  m.ExchangeRate,
		CreatedAt:     m.CreatedAt,
	}
}
