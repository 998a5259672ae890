package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// FinvoiceUseCase exporta una factura como XML Finvoice 3.0 para canales
// bancarios de facturación electrónica.
type FinvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	companyRepo repository.CompanyRepository
	exporter    FinvoiceExporter
}

// NewFinvoiceUseCase construye el caso de uso.
func NewFinvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	exporter FinvoiceExporter,
) *FinvoiceUseCase {
	return &FinvoiceUseCase{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		exporter:    exporter,
	}
}

// ExportInvoice serializa la factura. Solo documentos ya numerados: un borrador
// sin número no tiene referencia de pago válida.
func (uc *FinvoiceUseCase) ExportInvoice(ctx context.Context, invoiceID string) (xmlBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("finvoice: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.Draft() {
		return nil, "", domain.ErrInvalidInput
	}

	profile, err := uc.companyRepo.Get()
	if err != nil || profile == nil {
		return nil, "", fmt.Errorf("finvoice: obtener perfil de la empresa: %w", err)
	}

	xmlBytes, err = uc.exporter.Export(inv, profile)
	if err != nil {
		return nil, "", fmt.Errorf("finvoice: exportación fallida: %w", err)
	}
	filename = fmt.Sprintf("finvoice_%d.xml", inv.Number)
	return xmlBytes, filename, nil
}
