package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Fixture de ciclo de vida: perfil con contador en 100, cliente empresa a 14 días.
type lifecycleFixture struct {
	uc       *billing.LifecycleUseCase
	company  *fakeCompanyRepo
	customer *fakeCustomerRepo
	entry    *fakeEntryRepo
	invoice  *fakeInvoiceRepo
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		company: &fakeCompanyRepo{
			profile: &entity.CompanyProfile{
				ID:         "company-1",
				Name:       "Huoltopalvelu Oy",
				IBAN:       "FI21 1234 5600 0007 85",
				BIC:        "NDEAFIHH",
				VATPercent: decimal.NewFromFloat(25.5),
			},
			next: 100,
		},
		customer: &fakeCustomerRepo{customers: []*entity.Customer{
			{ID: "c1", Name: "Yritys Oy", Type: entity.CustomerTypeBusiness, PaymentTerm: entity.PaymentTermNet14},
		}},
		entry:   &fakeEntryRepo{},
		invoice: &fakeInvoiceRepo{},
	}
	tx := &fakeTxRunner{company: f.company, customer: f.customer, entry: f.entry, invoice: f.invoice}
	f.uc = billing.NewLifecycleUseCase(tx, f.company, f.customer, f.entry, f.invoice,
		domainbilling.NewPaymentCodeService())
	return f
}

func (f *lifecycleFixture) seedInvoice(status string) *entity.Invoice {
	inv := &entity.Invoice{
		ID:      "inv-1",
		DocType: entity.DocTypeInvoice,
		Number:  90,
		Customer: entity.CustomerSnapshot{
			Name: "Yritys Oy", Type: entity.CustomerTypeBusiness,
		},
		CustomerID:  "c1",
		Status:      status,
		InvoiceDate: "2025-04-01",
		DueDate:     "2025-04-15",
		Reference:   "903",
		Rows: []entity.InvoiceRow{
			{Header: true, Description: "Kohde: Esimerkkikatu 1"},
			{Description: "Huolto", Quantity: decimal.NewFromInt(1),
				UnitPrice: decimal.NewFromInt(100), Total: decimal.RequireFromString("125.50"),
				EntryIDs: []string{"e1"}},
		},
		Total:      decimal.RequireFromString("125.50"),
		VATPercent: decimal.NewFromFloat(25.5),
	}
	f.invoice.invoices = append(f.invoice.invoices, inv)
	return inv
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación
// ──────────────────────────────────────────────────────────────────────────────

// La aprobación numera consecutivamente, persiste la factura abierta, marca los
// registros de origen y materializa las cuotas sintetizadas como fixed_fee.
func TestApprove_MaterializaBorrador(t *testing.T) {
	f := newLifecycleFixture()
	f.entry.entries = []*entity.WorkEntry{
		{ID: "e1", TaskID: taskHuolto, CustomerID: "c1", Date: "2025-03-12",
			PriceWork: decimal.NewFromInt(100), Origin: entity.OriginFieldEntry},
	}

	out, err := f.uc.Approve(context.Background(), dto.ApproveInvoicesRequest{
		InvoiceDate: "2025-04-01",
		Drafts: []dto.InvoiceDraftDTO{{
			CustomerID:   "c1",
			CustomerName: "Yritys Oy",
			Rows: []dto.InvoiceRowDTO{
				{Header: true, Description: "Kohde: Esimerkkikatu 1"},
				{Description: "Huolto", Quantity: decimal.NewFromInt(1),
					UnitPrice: decimal.NewFromInt(100), Total: decimal.RequireFromString("125.50"),
					EntryIDs: []string{"e1"}},
			},
			SourceEntryIDs: []string{"e1"},
			SyntheticEntries: []dto.SyntheticEntryDTO{{
				TaskID: taskKK, TaskName: "Kuukausisopimus",
				CustomerID: "c1", CustomerName: "Yritys Oy",
				PropertyID: "p1", Date: "2025-03-31",
				PriceWork: decimal.NewFromInt(250),
			}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	inv := out[0]
	assert.Equal(t, 100, inv.Number)
	assert.Equal(t, entity.InvoiceStatusOpen, inv.Status)
	assert.Equal(t, "2025-04-15", inv.DueDate, "emisión + 14 días")
	assert.Equal(t, "1009", inv.Reference, "viitenumero del número 100")
	assert.Len(t, inv.Barcode, 54, "código de barras virtual completo")
	assert.Equal(t, "125.50", inv.Total.StringFixed(2), "el total se recalcula de las líneas")

	// El registro de origen quedó marcado contra la factura nueva.
	e1, err := f.entry.GetByID("e1")
	require.NoError(t, err)
	assert.True(t, e1.Invoiced)
	assert.Equal(t, inv.ID, e1.InvoiceID)

	// La cuota sintetizada ahora es un registro real fixed_fee ya facturado.
	fees, err := f.entry.List(repository.WorkEntryFilter{Origin: entity.OriginFixedFee})
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.True(t, fees[0].Invoiced)
	assert.Equal(t, inv.ID, fees[0].InvoiceID)
	assert.Equal(t, entity.TaskTypeFixedMonthly, fees[0].TaskType)
	assert.Equal(t, "250", fees[0].PriceWork.String())
}

// Dos borradores aprobados juntos reciben números consecutivos sin hueco.
func TestApprove_NumerosConsecutivos(t *testing.T) {
	f := newLifecycleFixture()

	draft := func() dto.InvoiceDraftDTO {
		return dto.InvoiceDraftDTO{
			CustomerID: "c1",
			Rows: []dto.InvoiceRowDTO{
				{Description: "Huolto", Quantity: decimal.NewFromInt(1),
					UnitPrice: decimal.NewFromInt(50), Total: decimal.RequireFromString("62.75")},
			},
		}
	}
	out, err := f.uc.Approve(context.Background(), dto.ApproveInvoicesRequest{
		InvoiceDate: "2025-04-01",
		Drafts:      []dto.InvoiceDraftDTO{draft(), draft()},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 100, out[0].Number)
	assert.Equal(t, 101, out[1].Number)
	assert.Equal(t, 102, f.company.next, "el contador avanzó por los dos")
}

func TestApprove_Errores(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.uc.Approve(context.Background(), dto.ApproveInvoicesRequest{InvoiceDate: "2025-04-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "aprobación sin borradores")

	_, err = f.uc.Approve(context.Background(), dto.ApproveInvoicesRequest{
		InvoiceDate: "1.4.2025",
		Drafts:      []dto.InvoiceDraftDTO{{CustomerID: "c1"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "fecha de emisión mal formada")

	_, err = f.uc.Approve(context.Background(), dto.ApproveInvoicesRequest{
		InvoiceDate: "2025-04-01",
		Drafts:      []dto.InvoiceDraftDTO{{CustomerID: "c-inexistente"}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "cliente del borrador ya no existe")
}

// Reenviar un borrador ya aprobado no debe refacturar sus registros: la segunda
// aprobación falla y los registros siguen apuntando a la primera factura.
func TestApprove_RechazaRegistrosYaFacturados(t *testing.T) {
	f := newLifecycleFixture()
	f.entry.entries = []*entity.WorkEntry{
		{ID: "e1", TaskID: taskHuolto, CustomerID: "c1", Date: "2025-03-12",
			PriceWork: decimal.NewFromInt(100), Origin: entity.OriginFieldEntry},
	}
	req := dto.ApproveInvoicesRequest{
		InvoiceDate: "2025-04-01",
		Drafts: []dto.InvoiceDraftDTO{{
			CustomerID: "c1",
			Rows: []dto.InvoiceRowDTO{
				{Description: "Huolto", Quantity: decimal.NewFromInt(1),
					UnitPrice: decimal.NewFromInt(100), Total: decimal.RequireFromString("125.50"),
					EntryIDs: []string{"e1"}},
			},
			SourceEntryIDs: []string{"e1"},
		}},
	}

	out, err := f.uc.Approve(context.Background(), req)
	require.NoError(t, err)
	firstID := out[0].ID

	_, err = f.uc.Approve(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced, "el borrador ya se materializó")

	e1, err := f.entry.GetByID("e1")
	require.NoError(t, err)
	assert.Equal(t, firstID, e1.InvoiceID, "el registro sigue en la primera factura")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestTransiciones_FlujoNormal(t *testing.T) {
	f := newLifecycleFixture()
	f.seedInvoice(entity.InvoiceStatusOpen)

	sent, err := f.uc.MarkSent(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, sent.Status)

	paid, err := f.uc.MarkPaid(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)

	// Cobrada no vuelve a enviarse.
	_, err = f.uc.MarkSent(context.Background(), "inv-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMarkPaid_SoloDesdeEnviada(t *testing.T) {
	f := newLifecycleFixture()
	f.seedInvoice(entity.InvoiceStatusOpen)

	_, err := f.uc.MarkPaid(context.Background(), "inv-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "abierta no puede cobrarse sin enviar")
}

func TestCancel_MotivoObligatorio(t *testing.T) {
	f := newLifecycleFixture()
	f.seedInvoice(entity.InvoiceStatusOpen)

	_, err := f.uc.Cancel(context.Background(), "inv-1", "")
	assert.ErrorIs(t, err, domain.ErrMissingField)

	out, err := f.uc.Cancel(context.Background(), "inv-1", "número duplicado por error")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, out.Status)
	assert.Equal(t, "número duplicado por error", out.CancelReason)
}

func TestTransiciones_FacturaInexistente(t *testing.T) {
	f := newLifecycleFixture()
	_, err := f.uc.MarkSent(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Nota de crédito
// ──────────────────────────────────────────────────────────────────────────────

// La nota de crédito niega todos los importes, nace cobrada y deja la original
// en credited con el enlace cruzado.
func TestCreateCreditNote_NiegaYEnlaza(t *testing.T) {
	f := newLifecycleFixture()
	original := f.seedInvoice(entity.InvoiceStatusSent)

	note, err := f.uc.CreateCreditNote(context.Background(), "inv-1", "trabajo facturado dos veces")
	require.NoError(t, err)

	assert.Equal(t, entity.DocTypeCreditNote, note.DocType)
	assert.Equal(t, 100, note.Number, "número propio de la serie")
	assert.Equal(t, entity.InvoiceStatusPaid, note.Status, "la nota se liquida sola")
	assert.Equal(t, "-125.50", note.Total.StringFixed(2))
	assert.Equal(t, "inv-1", note.OriginalID)
	assert.Equal(t, "trabajo facturado dos veces", note.CancelReason)

	require.Len(t, note.Rows, 2)
	assert.True(t, note.Rows[0].Header, "las cabeceras no se niegan")
	assert.Equal(t, "-125.50", note.Rows[1].Total.StringFixed(2))
	assert.Equal(t, "-100.00", note.Rows[1].UnitPrice.StringFixed(2))
	assert.Empty(t, note.Rows[1].EntryIDs, "los registros siguen ligados solo a la original")

	assert.Equal(t, entity.InvoiceStatusCredited, original.Status)
	assert.Equal(t, note.ID, original.CreditNoteID)
}

// Contra una factura abierta no hay nada que acreditar: se anula.
func TestCreateCreditNote_RechazadaSobreAbierta(t *testing.T) {
	f := newLifecycleFixture()
	f.seedInvoice(entity.InvoiceStatusOpen)

	_, err := f.uc.CreateCreditNote(context.Background(), "inv-1", "motivo")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado permanente (rollback)
// ──────────────────────────────────────────────────────────────────────────────

// El borrado elimina las cuotas materializadas y devuelve los registros reales
// al pozo de no facturados.
func TestDeletePermanently_CompensaRegistros(t *testing.T) {
	f := newLifecycleFixture()
	f.seedInvoice(entity.InvoiceStatusOpen)
	f.entry.entries = []*entity.WorkEntry{
		{ID: "e1", CustomerID: "c1", Origin: entity.OriginFieldEntry,
			Invoiced: true, InvoiceID: "inv-1"},
		{ID: "fee1", CustomerID: "c1", Origin: entity.OriginFixedFee,
			Invoiced: true, InvoiceID: "inv-1"},
	}

	err := f.uc.DeletePermanently(context.Background(), "inv-1")
	require.NoError(t, err)

	inv, _ := f.invoice.GetByID("inv-1")
	assert.Nil(t, inv, "la factura desapareció del archivo")

	fee, _ := f.entry.GetByID("fee1")
	assert.Nil(t, fee, "la cuota materializada no existe fuera de la factura")

	e1, err := f.entry.GetByID("e1")
	require.NoError(t, err)
	require.NotNil(t, e1)
	assert.False(t, e1.Invoiced, "el registro real vuelve a ser facturable")
	assert.Empty(t, e1.InvoiceID)
}

func TestDeletePermanently_FacturaInexistente(t *testing.T) {
	f := newLifecycleFixture()
	err := f.uc.DeletePermanently(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición de líneas
// ──────────────────────────────────────────────────────────────────────────────

// Empresa: los importes llegan netos y el servidor aplica el IVA.
func TestUpdateRows_EmpresaImportesNetos(t *testing.T) {
	f := newLifecycleFixture()
	f.seedInvoice(entity.InvoiceStatusOpen)

	out, err := f.uc.UpdateRows(context.Background(), "inv-1", dto.UpdateInvoiceRowsRequest{
		Rows: []dto.InvoiceRowInput{
			{Header: true, Description: "Kohde: Esimerkkikatu 1"},
			{Description: "Työ", Amount: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "125.50", out.Total.StringFixed(2))
	assert.Len(t, out.Barcode, 54, "el código de barras se recalculó con el total nuevo")
}

// Particular: los importes llegan brutos y se respetan tal cual.
func TestUpdateRows_ParticularImportesBrutos(t *testing.T) {
	f := newLifecycleFixture()
	inv := f.seedInvoice(entity.InvoiceStatusOpen)
	inv.Customer.Type = entity.CustomerTypePrivate

	out, err := f.uc.UpdateRows(context.Background(), "inv-1", dto.UpdateInvoiceRowsRequest{
		Rows: []dto.InvoiceRowInput{
			{Description: "Työ", Amount: decimal.RequireFromString("125.50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "125.50", out.Total.StringFixed(2), "sin segundo IVA sobre un importe bruto")
}

func TestUpdateRows_SoloFacturaAbierta(t *testing.T) {
	f := newLifecycleFixture()
	f.seedInvoice(entity.InvoiceStatusSent)

	_, err := f.uc.UpdateRows(context.Background(), "inv-1", dto.UpdateInvoiceRowsRequest{
		Rows: []dto.InvoiceRowInput{{Description: "Työ", Amount: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "enviada queda congelada")
}
