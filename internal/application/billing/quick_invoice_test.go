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
)

type quickFixture struct {
	uc       *billing.QuickInvoiceUseCase
	company  *fakeCompanyRepo
	customer *fakeCustomerRepo
	invoice  *fakeInvoiceRepo
}

func newQuickFixture() *quickFixture {
	f := &quickFixture{
		company: &fakeCompanyRepo{
			profile: &entity.CompanyProfile{
				ID:         "company-1",
				Name:       "Huoltopalvelu Oy",
				IBAN:       "FI21 1234 5600 0007 85",
				VATPercent: decimal.NewFromFloat(25.5),
			},
			next: 100,
		},
		customer: &fakeCustomerRepo{},
		invoice:  &fakeInvoiceRepo{},
	}
	tx := &fakeTxRunner{company: f.company, customer: f.customer,
		entry: &fakeEntryRepo{}, invoice: f.invoice}
	f.uc = billing.NewQuickInvoiceUseCase(tx, f.company, f.customer,
		domainbilling.NewPaymentCodeService())
	return f
}

// El nombre coincide (sin distinguir mayúsculas) con un cliente existente: se
// reutiliza y la factura hereda sus condiciones de pago.
func TestQuickInvoice_ReutilizaClienteExistente(t *testing.T) {
	f := newQuickFixture()
	f.customer.customers = []*entity.Customer{
		{ID: "c1", Name: "Yritys Oy", Type: entity.CustomerTypeBusiness, PaymentTerm: entity.PaymentTermNet30},
	}

	out, err := f.uc.Create(context.Background(), dto.QuickInvoiceRequest{
		CustomerName: "yritys oy",
		InvoiceDate:  "2025-04-01",
		Rows: []dto.QuickInvoiceRowInput{
			{Description: "Piha-alueen korjaus", PriceWork: decimal.NewFromInt(100),
				PriceMaterial: decimal.NewFromInt(15)},
		},
	})
	require.NoError(t, err)

	assert.False(t, out.CustomerCreated)
	inv := out.Invoice
	assert.Equal(t, "c1", inv.CustomerID)
	assert.Equal(t, 100, inv.Number)
	assert.Equal(t, entity.InvoiceStatusOpen, inv.Status)
	assert.Equal(t, "2025-05-01", inv.DueDate, "30 días del cliente reutilizado")
	assert.Equal(t, "144.33", inv.Total.StringFixed(2), "115 € netos con IVA 25,5 %")

	require.Len(t, inv.Rows, 1)
	assert.Equal(t, "Työ 100.00 € / Tarvikkeet 15.00 €", inv.Rows[0].Details)
	assert.Len(t, f.customer.customers, 1, "sin cliente nuevo")
}

// Nombre desconocido: nace un cliente empresa a 14 días y se señala en la respuesta.
func TestQuickInvoice_CreaClienteAlVuelo(t *testing.T) {
	f := newQuickFixture()

	out, err := f.uc.Create(context.Background(), dto.QuickInvoiceRequest{
		CustomerName: "Uusi Asiakas Oy",
		InvoiceDate:  "2025-04-01",
		Rows: []dto.QuickInvoiceRowInput{
			{Description: "Kertatyö", PriceWork: decimal.NewFromInt(200)},
		},
	})
	require.NoError(t, err)

	assert.True(t, out.CustomerCreated)
	assert.Equal(t, "2025-04-15", out.Invoice.DueDate, "14 días por defecto")

	require.Len(t, f.customer.customers, 1)
	created := f.customer.customers[0]
	assert.Equal(t, "Uusi Asiakas Oy", created.Name)
	assert.Equal(t, entity.CustomerTypeBusiness, created.Type)
	assert.Equal(t, out.Invoice.CustomerID, created.ID)
}

func TestQuickInvoice_Validaciones(t *testing.T) {
	f := newQuickFixture()
	row := dto.QuickInvoiceRowInput{Description: "Työ", PriceWork: decimal.NewFromInt(10)}

	_, err := f.uc.Create(context.Background(), dto.QuickInvoiceRequest{
		CustomerName: "   ", InvoiceDate: "2025-04-01", Rows: []dto.QuickInvoiceRowInput{row},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre en blanco")

	_, err = f.uc.Create(context.Background(), dto.QuickInvoiceRequest{
		CustomerName: "Yritys Oy", InvoiceDate: "2025-04-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = f.uc.Create(context.Background(), dto.QuickInvoiceRequest{
		CustomerName: "Yritys Oy", InvoiceDate: "1.4.2025", Rows: []dto.QuickInvoiceRowInput{row},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "fecha mal formada")
}
