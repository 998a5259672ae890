package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

func TestDueDate_NetoDias(t *testing.T) {
	casos := []struct {
		term string
		want string
	}{
		{entity.PaymentTermNet7, "2025-03-08"},
		{entity.PaymentTermNet14, "2025-03-15"},
		{entity.PaymentTermNet30, "2025-03-31"},
		{"", "2025-03-15"}, // sin condición: 14 días por defecto
	}
	for _, c := range casos {
		got, err := billing.DueDate("2025-03-01", c.term, 0)
		require.NoError(t, err, c.term)
		assert.Equal(t, c.want, got, c.term)
	}
}

func TestDueDate_DiaFijoSiguienteOcurrencia(t *testing.T) {
	// El día 5 ya pasó este mes: vence el 5 del mes siguiente.
	got, err := billing.DueDate("2025-03-14", entity.PaymentTermFixedDay, 5)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-05", got)
}

func TestDueDate_DiaFijoMismoDiaPasaAlSiguienteMes(t *testing.T) {
	// La ocurrencia debe ser estrictamente posterior a la emisión.
	got, err := billing.DueDate("2025-03-14", entity.PaymentTermFixedDay, 14)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-14", got)
}

func TestDueDate_DiaFijoRecortadoAlFinDeMes(t *testing.T) {
	got, err := billing.DueDate("2025-02-01", entity.PaymentTermFixedDay, 31)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", got)
}

func TestDueDate_Errores(t *testing.T) {
	_, err := billing.DueDate("14.3.2025", entity.PaymentTermNet14, 0)
	assert.Error(t, err, "fecha de emisión mal formada")

	_, err = billing.DueDate("2025-03-14", "45pv", 0)
	assert.Error(t, err, "condición de pago desconocida")

	_, err = billing.DueDate("2025-03-14", entity.PaymentTermFixedDay, 0)
	assert.Error(t, err, "día fijo fuera de rango")
}
