package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

const taskSnow = "task-snow"

func buildCustomerWithContract(price float64, active bool) *entity.Customer {
	return &entity.Customer{
		ID:   "cust-1",
		Name: "Asunto Oy Testi",
		Type: entity.CustomerTypePortfolio,
		Contracts: entity.ContractMap{
			taskSnow: {Active: active, Price: decimal.NewFromFloat(price)},
		},
	}
}

// La propiedad con contrato activo siempre gana al cliente, aunque ambos tengan precio.
func TestResolvePrice_PropiedadSobrescribeCliente(t *testing.T) {
	customer := buildCustomerWithContract(45, true)
	property := &entity.Property{
		ID:         "prop-1",
		CustomerID: customer.ID,
		Contracts: entity.ContractMap{
			taskSnow: {Active: true, Price: decimal.NewFromInt(60)},
		},
	}

	price, err := billing.ResolvePrice(customer, property, taskSnow)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(price))
}

func TestResolvePrice_ContratoInactivoEnPropiedadCaeAlCliente(t *testing.T) {
	customer := buildCustomerWithContract(45, true)
	property := &entity.Property{
		Contracts: entity.ContractMap{
			taskSnow: {Active: false, Price: decimal.NewFromInt(60)},
		},
	}

	price, err := billing.ResolvePrice(customer, property, taskSnow)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(45).Equal(price))
}

func TestResolvePrice_SinPropiedadUsaCliente(t *testing.T) {
	customer := buildCustomerWithContract(45, true)

	price, err := billing.ResolvePrice(customer, nil, taskSnow)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(45).Equal(price))
}

func TestResolvePrice_SinContratoActivo(t *testing.T) {
	customer := buildCustomerWithContract(45, false)

	_, err := billing.ResolvePrice(customer, nil, taskSnow)
	assert.ErrorIs(t, err, domain.ErrNotContracted,
		"sin contrato activo la tarea se excluye, nunca se factura cero")

	_, err = billing.ResolvePrice(customer, nil, "task-desconocida")
	assert.ErrorIs(t, err, domain.ErrNotContracted)
}

func TestCategoryFor(t *testing.T) {
	casos := []struct {
		taskType string
		origin   string
		want     string
	}{
		{entity.TaskTypeFixedMonthly, entity.OriginFieldEntry, billing.CategoryContracts},
		{entity.TaskTypeCheckbox, entity.OriginContractGenerated, billing.CategoryContracts},
		{entity.TaskTypeCheckbox, entity.OriginFixedFee, billing.CategoryContracts},
		{entity.TaskTypeExtra, entity.OriginAdHocEntry, billing.CategoryExtras},
		{entity.TaskTypeMaterial, entity.OriginAdHocEntry, billing.CategoryMaterials},
		{entity.TaskTypeCheckbox, entity.OriginFieldEntry, billing.CategoryMaintenance},
		{entity.TaskTypeHourly, entity.OriginFieldEntry, billing.CategoryMaintenance},
		{entity.TaskTypeQuantity, entity.OriginFieldEntry, billing.CategoryMaintenance},
	}
	for _, c := range casos {
		assert.Equal(t, c.want, billing.CategoryFor(c.taskType, c.origin), "%s/%s", c.taskType, c.origin)
	}
}

func TestMergeable(t *testing.T) {
	assert.True(t, billing.Mergeable(entity.TaskTypeCheckbox, entity.OriginFieldEntry))
	assert.True(t, billing.Mergeable(entity.TaskTypeQuantity, entity.OriginFieldEntry))
	assert.True(t, billing.Mergeable(entity.TaskTypeFixed, entity.OriginFieldEntry))
	assert.True(t, billing.Mergeable(entity.TaskTypeHourly, entity.OriginFieldEntry))

	assert.False(t, billing.Mergeable(entity.TaskTypeExtra, entity.OriginAdHocEntry))
	assert.False(t, billing.Mergeable(entity.TaskTypeMaterial, entity.OriginAdHocEntry))
	assert.False(t, billing.Mergeable(entity.TaskTypeFixedMonthly, entity.OriginFieldEntry))
	assert.False(t, billing.Mergeable(entity.TaskTypeCheckbox, entity.OriginContractGenerated),
		"las cuotas sintetizadas nunca se fusionan")
}
