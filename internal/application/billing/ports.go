package billing

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función con repositorios ligados a una misma
// transacción. Aprobación, anulación, nota de crédito y borrado permanente
// tocan varias colecciones a la vez: o se aplica todo o no se aplica nada.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		customerRepo repository.CustomerRepository,
		entryRepo repository.WorkEntryRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación imprimible de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, profile *entity.CompanyProfile) ([]byte, error)
}

// FinvoiceExporter serializa una factura al formato Finvoice 3.0 (XML).
type FinvoiceExporter interface {
	Export(inv *entity.Invoice, profile *entity.CompanyProfile) ([]byte, error)
}
