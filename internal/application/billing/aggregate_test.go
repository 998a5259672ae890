package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// Fixture de agregación: perfil con IVA 25,5 %, repositorios en memoria.
type aggregateFixture struct {
	uc       *billing.AggregateUseCase
	company  *fakeCompanyRepo
	customer *fakeCustomerRepo
	property *fakePropertyRepo
	entry    *fakeEntryRepo
}

func newAggregateFixture() *aggregateFixture {
	f := &aggregateFixture{
		company: &fakeCompanyRepo{profile: &entity.CompanyProfile{
			ID:         "company-1",
			Name:       "Huoltopalvelu Oy",
			VATPercent: decimal.NewFromFloat(25.5),
			Tasks: []entity.TaskDefinition{
				{ID: taskKK, Label: "Kuukausisopimus", Type: entity.TaskTypeFixedMonthly},
				{ID: taskHuolto, Label: "Huolto", Type: entity.TaskTypeCheckbox},
			},
		}},
		customer: &fakeCustomerRepo{},
		property: &fakePropertyRepo{},
		entry:    &fakeEntryRepo{},
	}
	f.uc = billing.NewAggregateUseCase(f.company, f.customer, f.property, f.entry)
	return f
}

// Un cliente de cartera reparte el mes en un borrador por grupo y categoría:
// el mantenimiento de Keskusta y el trabajo extra de Itä no comparten factura.
func TestGenerateDrafts_CarteraAgrupaPorGrupoYCategoria(t *testing.T) {
	f := newAggregateFixture()
	f.customer.customers = []*entity.Customer{
		{ID: "c1", Name: "Kiinteistö Oy", Type: entity.CustomerTypePortfolio},
	}
	f.entry.entries = []*entity.WorkEntry{
		{
			ID: "e1", TaskID: taskHuolto, TaskName: "Huolto", TaskType: entity.TaskTypeCheckbox,
			CustomerID: "c1", PropertyID: "p1", PropertyAddress: "Esimerkkikatu 1",
			Group: "Keskusta", CostCenter: "101",
			Date: "2025-03-03", PriceWork: decimal.NewFromInt(45), Origin: entity.OriginFieldEntry,
		},
		{
			ID: "e2", TaskID: taskHuolto, TaskName: "Huolto", TaskType: entity.TaskTypeCheckbox,
			CustomerID: "c1", PropertyID: "p1", PropertyAddress: "Esimerkkikatu 1",
			Group: "Keskusta", CostCenter: "101",
			Date: "2025-03-10", PriceWork: decimal.NewFromInt(45), Origin: entity.OriginFieldEntry,
		},
		{
			ID: "e3", TaskID: "t-lisa", TaskName: "Lisätyö", TaskType: entity.TaskTypeExtra,
			CustomerID: "c1", PropertyID: "p2", PropertyAddress: "Esimerkkikatu 2",
			Group: "Itä",
			Date:  "2025-03-05", PriceWork: decimal.NewFromInt(80), Origin: entity.OriginAdHocEntry,
		},
	}

	resp, err := f.uc.GenerateDrafts(context.Background(), "2025-03")
	require.NoError(t, err)
	require.Len(t, resp.Drafts, 2, "un borrador por grupo y categoría")

	// Orden alfabético por título: Itä antes que Keskusta.
	extra := resp.Drafts[0]
	assert.Equal(t, "Kiinteistö Oy / Itä / "+domainbilling.CategoryExtras, extra.Title)
	require.Len(t, extra.Rows, 2)
	assert.True(t, extra.Rows[0].Header)
	assert.Equal(t, "Kohde: Esimerkkikatu 2", extra.Rows[0].Description)
	assert.Equal(t, "5.3. Lisätyö", extra.Rows[1].Description, "el extra lleva su fecha delante")
	assert.Equal(t, "100.40", extra.Rows[1].Total.StringFixed(2), "80 € netos con IVA 25,5 %")

	maint := resp.Drafts[1]
	assert.Equal(t, "Kiinteistö Oy / Keskusta / "+domainbilling.CategoryMaintenance, maint.Title)
	require.Len(t, maint.Rows, 2)
	assert.Equal(t, "Kohde: KP 101 / Esimerkkikatu 1", maint.Rows[0].Description,
		"la cabecera incluye el centro de costes")

	merged := maint.Rows[1]
	assert.Equal(t, "Huolto", merged.Description)
	assert.Equal(t, "2", merged.Quantity.String(), "dos ocurrencias del mismo precio colapsan")
	assert.Equal(t, "3.3., 10.3.", merged.Dates)
	assert.Equal(t, "112.95", merged.Total.StringFixed(2), "2 x 45 € netos con IVA 25,5 %")
	assert.ElementsMatch(t, []string{"e1", "e2"}, merged.EntryIDs)

	assert.Equal(t, "112.95", maint.GrossTotal.StringFixed(2))
	assert.ElementsMatch(t, []string{"e1", "e2"}, maint.SourceEntryIDs)
}

// La factura de un particular con un único destino omite las cabeceras de
// propiedad: queda una línea por cargo, sin ruido.
func TestGenerateDrafts_ParticularUnicoDestinoSinCabeceras(t *testing.T) {
	f := newAggregateFixture()
	f.customer.customers = []*entity.Customer{
		{ID: "c-priv", Name: "Matti Meikäläinen", Type: entity.CustomerTypePrivate},
	}
	f.entry.entries = []*entity.WorkEntry{
		{
			ID: "e1", TaskID: taskHuolto, TaskName: "Huolto", TaskType: entity.TaskTypeCheckbox,
			CustomerID: "c-priv", PropertyID: "p3", PropertyAddress: "Kotikatu 5",
			Date: "2025-03-12", PriceWork: decimal.NewFromInt(45), Origin: entity.OriginFieldEntry,
		},
	}

	resp, err := f.uc.GenerateDrafts(context.Background(), "2025-03")
	require.NoError(t, err)
	require.Len(t, resp.Drafts, 1)

	draft := resp.Drafts[0]
	assert.Equal(t, "Matti Meikäläinen", draft.Title, "sin grupo ni categoría para particulares")
	require.Len(t, draft.Rows, 1, "sin cabecera con un solo destino")
	assert.False(t, draft.Rows[0].Header)
	assert.Equal(t, "Huolto", draft.Rows[0].Description)
	assert.Equal(t, "56.48", draft.Rows[0].Total.StringFixed(2))
}

// Sin registros de campo, la cuota mensual de la propiedad se sintetiza y sale
// en el borrador de la categoría de contratos, lista para materializar.
func TestGenerateDrafts_SintetizaCuotaMensual(t *testing.T) {
	f := newAggregateFixture()
	f.customer.customers = []*entity.Customer{
		{ID: "c1", Name: "Kiinteistö Oy", Type: entity.CustomerTypePortfolio},
	}
	f.property.properties = []*entity.Property{
		{
			ID: "p1", CustomerID: "c1", Address: "Esimerkkikatu 1", Group: "Keskusta", CostCenter: "101",
			Contracts: entity.ContractMap{taskKK: {Active: true, Price: decimal.NewFromInt(250)}},
		},
	}

	resp, err := f.uc.GenerateDrafts(context.Background(), "2025-03")
	require.NoError(t, err)
	require.Len(t, resp.Drafts, 1)

	draft := resp.Drafts[0]
	assert.Equal(t, domainbilling.CategoryContracts, draft.Category)
	require.Len(t, draft.Rows, 2)
	assert.Equal(t, "31.3. Kuukausisopimus", draft.Rows[1].Description, "cuota fechada al fin de mes")
	assert.Equal(t, "313.75", draft.Rows[1].Total.StringFixed(2))

	assert.Empty(t, draft.SourceEntryIDs, "la cuota aún no existe como registro")
	require.Len(t, draft.SyntheticEntries, 1)
	s := draft.SyntheticEntries[0]
	assert.Equal(t, taskKK, s.TaskID)
	assert.Equal(t, "p1", s.PropertyID)
	assert.Equal(t, "2025-03-31", s.Date)
	assert.Equal(t, "250", s.PriceWork.String())
}

// Repetir la agregación después de aprobar no vuelve a ofrecer la cuota: el
// registro fixed_fee persistido del mes actúa de marcador.
func TestGenerateDrafts_CuotaYaFacturadaNoSeRepite(t *testing.T) {
	f := newAggregateFixture()
	f.customer.customers = []*entity.Customer{
		{ID: "c1", Name: "Kiinteistö Oy", Type: entity.CustomerTypePortfolio},
	}
	f.property.properties = []*entity.Property{
		{
			ID: "p1", CustomerID: "c1", Address: "Esimerkkikatu 1",
			Contracts: entity.ContractMap{taskKK: {Active: true, Price: decimal.NewFromInt(250)}},
		},
	}
	f.entry.entries = []*entity.WorkEntry{
		// Cuota del mes ya materializada por una aprobación anterior.
		{
			ID: "fee1", TaskID: taskKK, TaskName: "Kuukausisopimus", TaskType: entity.TaskTypeFixedMonthly,
			CustomerID: "c1", PropertyID: "p1", Date: "2025-03-31",
			PriceWork: decimal.NewFromInt(250), Origin: entity.OriginFixedFee,
			Invoiced: true, InvoiceID: "inv-old",
		},
		// Trabajo de campo pendiente, para que el mes siga teniendo algo.
		{
			ID: "e1", TaskID: taskHuolto, TaskName: "Huolto", TaskType: entity.TaskTypeCheckbox,
			CustomerID: "c1", PropertyID: "p1", PropertyAddress: "Esimerkkikatu 1",
			Date: "2025-03-12", PriceWork: decimal.NewFromInt(45), Origin: entity.OriginFieldEntry,
		},
	}

	resp, err := f.uc.GenerateDrafts(context.Background(), "2025-03")
	require.NoError(t, err)
	for _, d := range resp.Drafts {
		assert.NotEqual(t, domainbilling.CategoryContracts, d.Category,
			"la cuota ya facturada no debe reaparecer")
		assert.Empty(t, d.SyntheticEntries)
	}
}

// Mes vacío: resultado informativo, no un error interno.
func TestGenerateDrafts_SinNadaQueFacturar(t *testing.T) {
	f := newAggregateFixture()
	f.customer.customers = []*entity.Customer{
		{ID: "c1", Name: "Kiinteistö Oy", Type: entity.CustomerTypePortfolio},
	}

	_, err := f.uc.GenerateDrafts(context.Background(), "2025-03")
	assert.ErrorIs(t, err, domain.ErrNothingToBill)
}

func TestGenerateDrafts_MesInvalido(t *testing.T) {
	f := newAggregateFixture()
	_, err := f.uc.GenerateDrafts(context.Background(), "marzo-2025")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Registros de un cliente ya borrado no rompen la agregación: se omiten.
func TestGenerateDrafts_RegistroHuerfanoSeOmite(t *testing.T) {
	f := newAggregateFixture()
	f.customer.customers = []*entity.Customer{
		{ID: "c1", Name: "Kiinteistö Oy", Type: entity.CustomerTypePortfolio},
	}
	f.entry.entries = []*entity.WorkEntry{
		{
			ID: "e1", TaskID: taskHuolto, TaskName: "Huolto", TaskType: entity.TaskTypeCheckbox,
			CustomerID: "c-borrado", Date: "2025-03-12",
			PriceWork: decimal.NewFromInt(45), Origin: entity.OriginFieldEntry,
		},
	}

	_, err := f.uc.GenerateDrafts(context.Background(), "2025-03")
	assert.ErrorIs(t, err, domain.ErrNothingToBill,
		"solo había un registro huérfano, no hay nada facturable")
}
