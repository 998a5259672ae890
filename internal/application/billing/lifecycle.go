package billing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// LifecycleUseCase gestiona la máquina de estados de la factura: aprobación de
// borradores, envío, cobro, anulación, nota de crédito y borrado con rollback.
// Toda transición que toca más de un documento corre dentro de una transacción.
type LifecycleUseCase struct {
	txRunner     BillingTxRunner
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	entryRepo    repository.WorkEntryRepository
	invoiceRepo  repository.InvoiceRepository
	paymentCode  *domainbilling.PaymentCodeService
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	txRunner BillingTxRunner,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	entryRepo repository.WorkEntryRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentCode *domainbilling.PaymentCodeService,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:     txRunner,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		entryRepo:    entryRepo,
		invoiceRepo:  invoiceRepo,
		paymentCode:  paymentCode,
	}
}

// Approve materializa los borradores seleccionados: asigna números consecutivos,
// persiste cada factura en estado open, marca los registros de origen como
// facturados y convierte las cuotas sintetizadas en registros reales con origen
// fixed_fee. Todo en una sola transacción: aprobar a medias duplicaría cobros.
func (uc *LifecycleUseCase) Approve(ctx context.Context, in dto.ApproveInvoicesRequest) ([]dto.InvoiceResponse, error) {
	if len(in.Drafts) == 0 {
		return nil, fmt.Errorf("%w: aprobación sin borradores seleccionados", domain.ErrInvalidTransition)
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

	customersByID := make(map[string]*entity.Customer, len(in.Drafts))
	for _, d := range in.Drafts {
		if _, ok := customersByID[d.CustomerID]; ok {
			continue
		}
		customer, err := uc.customerRepo.GetByID(d.CustomerID)
		if err != nil || customer == nil {
			return nil, fmt.Errorf("%w: cliente %s del borrador", domain.ErrNotFound, d.CustomerID)
		}
		customersByID[d.CustomerID] = customer
	}

	var approved []dto.InvoiceResponse
	err = uc.txRunner.RunBilling(ctx, func(
		companyRepo repository.CompanyRepository,
		_ repository.CustomerRepository,
		entryRepo repository.WorkEntryRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		first, err := companyRepo.AllocateInvoiceNumbers(len(in.Drafts))
		if err != nil {
			return err
		}
		now := time.Now()
		for i, draft := range in.Drafts {
			customer := customersByID[draft.CustomerID]
			inv, err := uc.buildInvoice(profile, customer, draft, first+i, in.InvoiceDate, vat, now)
			if err != nil {
				return err
			}
			if err := invoiceRepo.Create(inv); err != nil {
				return err
			}
			if len(draft.SourceEntryIDs) > 0 {
				if err := entryRepo.MarkInvoiced(draft.SourceEntryIDs, inv.ID); err != nil {
					return err
				}
			}
			if len(draft.SyntheticEntries) > 0 {
				materialized := make([]*entity.WorkEntry, 0, len(draft.SyntheticEntries))
				for _, s := range draft.SyntheticEntries {
					materialized = append(materialized, &entity.WorkEntry{
						ID:              uuid.New().String(),
						TaskID:          s.TaskID,
						TaskName:        s.TaskName,
						TaskType:        entity.TaskTypeFixedMonthly,
						CustomerID:      s.CustomerID,
						CustomerName:    s.CustomerName,
						PropertyID:      s.PropertyID,
						PropertyAddress: s.PropertyAddress,
						Group:           s.Group,
						CostCenter:      s.CostCenter,
						Date:            s.Date,
						PriceWork:       s.PriceWork,
						Origin:          entity.OriginFixedFee,
						Invoiced:        true,
						InvoiceID:       inv.ID,
						CreatedAt:       now,
					})
				}
				if err := entryRepo.CreateBatch(materialized); err != nil {
					return err
				}
			}
			approved = append(approved, dto.InvoiceFromEntity(inv))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// buildInvoice arma la entidad con número, vencimiento, referencia y código de
// barras. El total se recalcula de las líneas, nunca se confía en el del borrador.
func (uc *LifecycleUseCase) buildInvoice(
	profile *entity.CompanyProfile,
	customer *entity.Customer,
	draft dto.InvoiceDraftDTO,
	number int,
	invoiceDate string,
	vat decimal.Decimal,
	now time.Time,
) (*entity.Invoice, error) {
	dueDate, err := domainbilling.DueDate(invoiceDate, customer.PaymentTerm, customer.FixedDueDay)
	if err != nil {
		return nil, err
	}
	reference, err := uc.paymentCode.ReferenceNumber(strconv.Itoa(number))
	if err != nil {
		return nil, err
	}

	rows := make([]entity.InvoiceRow, 0, len(draft.Rows))
	total := decimal.Zero
	for _, r := range draft.Rows {
		row := entity.InvoiceRow{
			Header:      r.Header,
			Description: r.Description,
			Details:     r.Details,
			Dates:       r.Dates,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Total:       r.Total,
			TaskID:      r.TaskID,
			EntryIDs:    r.EntryIDs,
		}
		rows = append(rows, row)
		if !row.Header {
			total = total.Add(row.Total)
		}
	}

	return &entity.Invoice{
		ID:          uuid.New().String(),
		DocType:     entity.DocTypeInvoice,
		Number:      number,
		CustomerID:  customer.ID,
		Customer:    snapshotOf(customer),
		Group:       draft.Group,
		Category:    draft.Category,
		Status:      entity.InvoiceStatusOpen,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		PaymentTerm: customer.PaymentTerm,
		Reference:   reference,
		Barcode:     uc.paymentCode.VirtualBarcode(profile.IBAN, total, reference, dueDate),
		Rows:        rows,
		Total:       total,
		VATPercent:  vat,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MarkSent open -> sent. Congela la edición de líneas.
func (uc *LifecycleUseCase) MarkSent(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(id, entity.InvoiceStatusOpen, entity.InvoiceStatusSent, "")
}

// MarkPaid sent -> paid. Estado terminal salvo nota de crédito.
func (uc *LifecycleUseCase) MarkPaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(id, entity.InvoiceStatusSent, entity.InvoiceStatusPaid, "")
}

// Cancel open -> cancelled. El motivo es obligatorio; el número queda como
// hueco documentado de la numeración.
func (uc *LifecycleUseCase) Cancel(ctx context.Context, id, reason string) (*dto.InvoiceResponse, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: motivo de anulación", domain.ErrMissingField)
	}
	return uc.transition(id, entity.InvoiceStatusOpen, entity.InvoiceStatusCancelled, reason)
}

func (uc *LifecycleUseCase) transition(id, from, to, cancelReason string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, inv.Status, to)
	}
	inv.Status = to
	if cancelReason != "" {
		inv.CancelReason = cancelReason
	}
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	resp := dto.InvoiceFromEntity(inv)
	return &resp, nil
}

// CreateCreditNote emite una nota de crédito contra una factura enviada o
// cobrada: documento nuevo con todos los importes negados, estado paid (se
// liquida sola) y enlace a la original, que pasa a credited. Contra una factura
// abierta se rechaza: nada se comunicó fuera todavía, lo correcto es anular.
func (uc *LifecycleUseCase) CreateCreditNote(ctx context.Context, originalID, reason string) (*dto.InvoiceResponse, error) {
	original, err := uc.invoiceRepo.GetByID(originalID)
	if err != nil || original == nil {
		return nil, domain.ErrNotFound
	}
	if original.Status != entity.InvoiceStatusSent && original.Status != entity.InvoiceStatusPaid {
		return nil, fmt.Errorf("%w: nota de crédito sobre factura %s", domain.ErrInvalidTransition, original.Status)
	}

	var note *entity.Invoice
	err = uc.txRunner.RunBilling(ctx, func(
		companyRepo repository.CompanyRepository,
		_ repository.CustomerRepository,
		_ repository.WorkEntryRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		number, err := companyRepo.AllocateInvoiceNumbers(1)
		if err != nil {
			return err
		}
		reference, err := uc.paymentCode.ReferenceNumber(strconv.Itoa(number))
		if err != nil {
			return err
		}

		now := time.Now()
		rows := make([]entity.InvoiceRow, len(original.Rows))
		copy(rows, original.Rows)
		for i := range rows {
			if rows[i].Header {
				continue
			}
			rows[i].Total = rows[i].Total.Neg()
			rows[i].UnitPrice = rows[i].UnitPrice.Neg()
			rows[i].EntryIDs = nil
		}

		today := now.Format("2006-01-02")
		note = &entity.Invoice{
			ID:          uuid.New().String(),
			DocType:     entity.DocTypeCreditNote,
			Number:      number,
			CustomerID:  original.CustomerID,
			Customer:    original.Customer,
			Group:       original.Group,
			Category:    original.Category,
			Status:      entity.InvoiceStatusPaid,
			InvoiceDate: today,
			DueDate:     today,
			Reference:   reference,
			Rows:        rows,
			Total:       original.Total.Neg(),
			VATPercent:  original.VATPercent,
			CancelReason: reason,
			OriginalID:  original.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := invoiceRepo.Create(note); err != nil {
			return err
		}

		original.Status = entity.InvoiceStatusCredited
		original.CreditNoteID = note.ID
		original.UpdatedAt = now
		return invoiceRepo.Update(original)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.InvoiceFromEntity(note)
	return &resp, nil
}

// DeletePermanently borra la factura y compensa sus registros de origen: las
// cuotas (contract_generated/fixed_fee) se eliminan porque no existen fuera de
// la facturación; los registros reales vuelven al pozo de no facturados. Es el
// único rollback del sistema y debe ser atómico.
func (uc *LifecycleUseCase) DeletePermanently(ctx context.Context, id string) error {
	return uc.txRunner.RunBilling(ctx, func(
		_ repository.CompanyRepository,
		_ repository.CustomerRepository,
		entryRepo repository.WorkEntryRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		inv, err := invoiceRepo.GetByID(id)
		if err != nil || inv == nil {
			return domain.ErrNotFound
		}
		entries, err := entryRepo.ListByInvoice(id)
		if err != nil {
			return err
		}
		var toDelete, toReset []string
		for _, e := range entries {
			switch e.Origin {
			case entity.OriginContractGenerated, entity.OriginFixedFee:
				toDelete = append(toDelete, e.ID)
			default:
				toReset = append(toReset, e.ID)
			}
		}
		if len(toDelete) > 0 {
			if err := entryRepo.DeleteByIDs(toDelete); err != nil {
				return err
			}
		}
		if len(toReset) > 0 {
			if err := entryRepo.ResetInvoiced(toReset); err != nil {
				return err
			}
		}
		return invoiceRepo.Delete(id)
	})
}

// UpdateRows edita las líneas de una factura abierta y recalcula el total y el
// código de barras. Los importes llegan netos para empresa/cartera y brutos
// para particulares, igual que en la agregación.
func (uc *LifecycleUseCase) UpdateRows(ctx context.Context, id string, in dto.UpdateInvoiceRowsRequest) (*dto.InvoiceResponse, error) {
	if len(in.Rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.InvoiceStatusOpen {
		return nil, fmt.Errorf("%w: edición de líneas con estado %s", domain.ErrInvalidTransition, inv.Status)
	}

	profile, err := uc.companyRepo.Get()
	if err != nil || profile == nil {
		return nil, domain.ErrNotFound
	}

	vatInclusive := inv.Customer.Type == entity.CustomerTypePrivate
	rows := make([]entity.InvoiceRow, 0, len(in.Rows))
	total := decimal.Zero
	for _, r := range in.Rows {
		row := entity.InvoiceRow{
			Header:      r.Header,
			Description: r.Description,
			Details:     r.Details,
			Dates:       r.Dates,
		}
		if !row.Header {
			if vatInclusive {
				row.Total = r.Amount.Round(2)
			} else {
				row.Total = grossUp(r.Amount, inv.VATPercent)
			}
			row.Quantity = decimal.NewFromInt(1)
			row.UnitPrice = r.Amount
			total = total.Add(row.Total)
		}
		rows = append(rows, row)
	}

	inv.Rows = rows
	inv.Total = total
	inv.Barcode = uc.paymentCode.VirtualBarcode(profile.IBAN, total, inv.Reference, inv.DueDate)
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	resp := dto.InvoiceFromEntity(inv)
	return &resp, nil
}

// Get devuelve una factura por ID.
func (uc *LifecycleUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.InvoiceFromEntity(inv)
	return &resp, nil
}

// List consulta el archivo de facturas con filtros de cliente, estado, tipo y fechas.
func (uc *LifecycleUseCase) List(ctx context.Context, in dto.InvoiceFilterRequest) ([]dto.InvoiceResponse, error) {
	if in.Limit <= 0 {
		in.Limit = 50
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	list, err := uc.invoiceRepo.List(repository.InvoiceFilter{
		CustomerID: in.CustomerID,
		Status:     in.Status,
		DocType:    in.DocType,
		FromDate:   in.From,
		ToDate:     in.To,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.InvoiceFromEntity(inv))
	}
	return out, nil
}

// snapshotOf congela los datos del cliente en la factura.
func snapshotOf(c *entity.Customer) entity.CustomerSnapshot {
	return entity.CustomerSnapshot{
		Name:       c.Name,
		Type:       c.Type,
		BusinessID: c.BusinessID,
		Street:     c.Street,
		Zip:        c.Zip,
		City:       c.City,
		Email:      c.Email,
	}
}
