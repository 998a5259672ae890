package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

const (
	taskKK     = "t-kk"     // cuota fija mensual
	taskHuolto = "t-huolto" // mantenimiento checkbox
)

func profileConCuotaMensual() *entity.CompanyProfile {
	return &entity.CompanyProfile{
		ID:   "company-1",
		Name: "Huoltopalvelu Oy",
		Tasks: []entity.TaskDefinition{
			{ID: taskKK, Label: "Kuukausisopimus", Type: entity.TaskTypeFixedMonthly},
			{ID: taskHuolto, Label: "Huolto", Type: entity.TaskTypeCheckbox},
		},
	}
}

// Una propiedad con la cuota activa en su propio mapa genera una cuota para su
// dueño, sea del tipo que sea.
func TestSynthesizeCharges_CuotaPorPropiedad(t *testing.T) {
	customer := &entity.Customer{ID: "c1", Name: "Kiinteistö Oy", Type: entity.CustomerTypePortfolio}
	prop := &entity.Property{
		ID:         "p1",
		CustomerID: "c1",
		Address:    "Esimerkkikatu 1",
		Group:      "Keskusta",
		CostCenter: "101",
		Contracts:  entity.ContractMap{taskKK: {Active: true, Price: decimal.NewFromInt(250)}},
	}

	out := billing.SynthesizeCharges("2025-03-31", profileConCuotaMensual(),
		[]*entity.Customer{customer}, []*entity.Property{prop}, nil)

	require.Len(t, out, 1)
	e := out[0]
	assert.Equal(t, taskKK, e.TaskID)
	assert.Equal(t, entity.TaskTypeFixedMonthly, e.TaskType)
	assert.Equal(t, "c1", e.CustomerID)
	assert.Equal(t, "p1", e.PropertyID)
	assert.Equal(t, "Keskusta", e.Group)
	assert.Equal(t, "101", e.CostCenter)
	assert.Equal(t, "2025-03-31", e.Date, "la cuota se fecha al fin de mes")
	assert.True(t, e.PriceWork.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, entity.OriginContractGenerated, e.Origin)
	assert.True(t, e.Synthetic(), "la cuota existe solo en memoria")
}

// El contrato a nivel de cliente solo sintetiza para particulares; empresas y
// carteras facturan cuotas únicamente por propiedad.
func TestSynthesizeCharges_CuotaNivelClienteSoloParticulares(t *testing.T) {
	private := &entity.Customer{
		ID: "c-priv", Name: "Matti Meikäläinen", Type: entity.CustomerTypePrivate,
		Contracts: entity.ContractMap{taskKK: {Active: true, Price: decimal.NewFromInt(60)}},
	}
	business := &entity.Customer{
		ID: "c-biz", Name: "Yritys Oy", Type: entity.CustomerTypeBusiness,
		Contracts: entity.ContractMap{taskKK: {Active: true, Price: decimal.NewFromInt(60)}},
	}

	out := billing.SynthesizeCharges("2025-03-31", profileConCuotaMensual(),
		[]*entity.Customer{private, business}, nil, nil)

	require.Len(t, out, 1)
	assert.Equal(t, "c-priv", out[0].CustomerID)
	assert.Empty(t, out[0].PropertyID, "cuota de particular sin propiedad")
}

// La tripleta ya facturada del mes no se vuelve a sintetizar.
func TestSynthesizeCharges_OmiteYaFacturadas(t *testing.T) {
	customer := &entity.Customer{ID: "c1", Name: "Kiinteistö Oy", Type: entity.CustomerTypePortfolio}
	prop := &entity.Property{
		ID: "p1", CustomerID: "c1", Address: "Esimerkkikatu 1",
		Contracts: entity.ContractMap{taskKK: {Active: true, Price: decimal.NewFromInt(250)}},
	}
	billed := map[billing.BilledKey]bool{
		{CustomerID: "c1", PropertyID: "p1", TaskID: taskKK}: true,
	}

	out := billing.SynthesizeCharges("2025-03-31", profileConCuotaMensual(),
		[]*entity.Customer{customer}, []*entity.Property{prop}, billed)

	assert.Empty(t, out, "la cuota del mes ya está facturada")
}

// Contrato presente pero inactivo no genera cuota; tampoco las tareas que no
// son de tipo cuota mensual.
func TestSynthesizeCharges_ContratoInactivoNoGenera(t *testing.T) {
	customer := &entity.Customer{ID: "c1", Name: "Kiinteistö Oy", Type: entity.CustomerTypePortfolio}
	prop := &entity.Property{
		ID: "p1", CustomerID: "c1",
		Contracts: entity.ContractMap{
			taskKK:     {Active: false, Price: decimal.NewFromInt(250)},
			taskHuolto: {Active: true, Price: decimal.NewFromInt(45)}, // checkbox, no cuota
		},
	}

	out := billing.SynthesizeCharges("2025-03-31", profileConCuotaMensual(),
		[]*entity.Customer{customer}, []*entity.Property{prop}, nil)

	assert.Empty(t, out)
}

// Propiedad cuyo cliente ya no existe se ignora sin error.
func TestSynthesizeCharges_PropiedadHuerfanaSeIgnora(t *testing.T) {
	prop := &entity.Property{
		ID: "p1", CustomerID: "c-borrado",
		Contracts: entity.ContractMap{taskKK: {Active: true, Price: decimal.NewFromInt(250)}},
	}

	out := billing.SynthesizeCharges("2025-03-31", profileConCuotaMensual(),
		nil, []*entity.Property{prop}, nil)

	assert.Empty(t, out)
}
