package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// QuickInvoiceUseCase factura manual sin pasar por la agregación: la oficina
// teclea el nombre del cliente y líneas libres con importes netos. Si el nombre
// no coincide con un cliente existente se crea uno sobre la marcha, como paso
// explícito con resultado propio (reutilizado o creado), no como efecto oculto.
type QuickInvoiceUseCase struct {
	txRunner     BillingTxRunner
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	paymentCode  *domainbilling.PaymentCodeService
}

// NewQuickInvoiceUseCase construye el caso de uso.
func NewQuickInvoiceUseCase(
	txRunner BillingTxRunner,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	paymentCode *domainbilling.PaymentCodeService,
) *QuickInvoiceUseCase {
	return &QuickInvoiceUseCase{
		txRunner:     txRunner,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		paymentCode:  paymentCode,
	}
}

// Create emite la factura rápida: mismo contador consecutivo y mismo estado
// inicial open que la aprobación normal, con participación idéntica en el resto
// del ciclo de vida.
func (uc *QuickInvoiceUseCase) Create(ctx context.Context, in dto.QuickInvoiceRequest) (*dto.QuickInvoiceResponse, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" || len(in.Rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", in.InvoiceDate); err != nil {
		return nil, fmt.Errorf("%w: fecha de emisión inválida %q", domain.ErrInvalidInput, in.InvoiceDate)
	}

	profile, err := uc.companyRepo.Get()
	if err != nil || profile == nil {
		return nil, domain.ErrNotFound
	}
	vat := profile.VATPercent
	if vat.IsZero() {
		vat = DefaultVATPercent
	}

	var out *dto.QuickInvoiceResponse
	err = uc.txRunner.RunBilling(ctx, func(
		companyRepo repository.CompanyRepository,
		customerRepo repository.CustomerRepository,
		_ repository.WorkEntryRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		customer, err := customerRepo.GetByName(name)
		if err != nil {
			return err
		}
		created := false
		if customer == nil {
			customerType := in.CustomerType
			if customerType == "" {
				customerType = entity.CustomerTypeBusiness
			}
			now := time.Now()
			customer = &entity.Customer{
				ID:          uuid.New().String(),
				Name:        name,
				Type:        customerType,
				PaymentTerm: entity.PaymentTermNet14,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := customerRepo.Create(customer); err != nil {
				return err
			}
			created = true
		}

		number, err := companyRepo.AllocateInvoiceNumbers(1)
		if err != nil {
			return err
		}
		reference, err := uc.paymentCode.ReferenceNumber(strconv.Itoa(number))
		if err != nil {
			return err
		}
		dueDate, err := domainbilling.DueDate(in.InvoiceDate, customer.PaymentTerm, customer.FixedDueDay)
		if err != nil {
			return err
		}

		rows := make([]entity.InvoiceRow, 0, len(in.Rows))
		total := decimal.Zero
		for _, r := range in.Rows {
			net := r.PriceWork.Add(r.PriceMaterial)
			row := entity.InvoiceRow{
				Description: r.Description,
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   net,
				Total:       grossUp(net, vat),
			}
			if r.PriceMaterial.IsPositive() {
				row.Details = fmt.Sprintf("Työ %s € / Tarvikkeet %s €",
					r.PriceWork.StringFixed(2), r.PriceMaterial.StringFixed(2))
			}
			total = total.Add(row.Total)
			rows = append(rows, row)
		}

		now := time.Now()
		inv := &entity.Invoice{
			ID:          uuid.New().String(),
			DocType:     entity.DocTypeInvoice,
			Number:      number,
			CustomerID:  customer.ID,
			Customer:    snapshotOf(customer),
			Status:      entity.InvoiceStatusOpen,
			InvoiceDate: in.InvoiceDate,
			DueDate:     dueDate,
			PaymentTerm: customer.PaymentTerm,
			Reference:   reference,
			Barcode:     uc.paymentCode.VirtualBarcode(profile.IBAN, total, reference, dueDate),
			Rows:        rows,
			Total:       total,
			VATPercent:  vat,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		out = &dto.QuickInvoiceResponse{
			Invoice:         dto.InvoiceFromEntity(inv),
			CustomerCreated: created,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
