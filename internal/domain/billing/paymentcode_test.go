package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Vectores calculados a mano según la guía de Finanssiala:
//
//	Referencia "1007": dígitos desde el menos significativo 7,0,0,1 con pesos
//	7,3,1,7 -> 49+0+0+7 = 56 -> dígito de control (10-6)%10 = 4 -> "10074".
//
//	Código de barras (versión 4):
//	  "4" + "2112345600000785" (IBAN FI21 1234 5600 0007 85)
//	      + "00013550" (135,50 €) + "000"
//	      + "00000000000000010074" + "250314" (2025-03-14)
// ──────────────────────────────────────────────────────────────────────────────

const (
	testIBAN       = "FI21 1234 5600 0007 85"
	testReference  = "10074"
	testDueDate    = "2025-03-14"
	testBarcodeRef = "4211234560000078500013550000000000000000000010074250314"
)

func TestReferenceNumber_VectorExacto(t *testing.T) {
	svc := billing.NewPaymentCodeService()

	ref, err := svc.ReferenceNumber("1007")
	require.NoError(t, err)
	assert.Equal(t, "10074", ref)
}

func TestReferenceNumber_BaseCorta(t *testing.T) {
	svc := billing.NewPaymentCodeService()

	ref, err := svc.ReferenceNumber("100")
	require.NoError(t, err)
	assert.Equal(t, "1009", ref, "suma 1*1 = 1 -> control 9")
}

func TestReferenceNumber_IgnoraNoDigitos(t *testing.T) {
	svc := billing.NewPaymentCodeService()

	conEspacios, err := svc.ReferenceNumber(" 10 07 ")
	require.NoError(t, err)
	limpio, err2 := svc.ReferenceNumber("1007")
	require.NoError(t, err2)
	assert.Equal(t, limpio, conEspacios)
}

func TestReferenceNumber_ErrorSinDigitos(t *testing.T) {
	svc := billing.NewPaymentCodeService()
	_, err := svc.ReferenceNumber("ABC")
	assert.Error(t, err, "una base sin dígitos no produce referencia")
}

func TestVirtualBarcode_VectorExacto(t *testing.T) {
	svc := billing.NewPaymentCodeService()

	code := svc.VirtualBarcode(testIBAN, decimal.NewFromFloat(135.50), testReference, testDueDate)
	assert.Equal(t, testBarcodeRef, code)
	assert.Len(t, code, 54, "el código de barras virtual siempre tiene 54 dígitos")
}

func TestVirtualBarcode_Determinista(t *testing.T) {
	svc := billing.NewPaymentCodeService()

	c1 := svc.VirtualBarcode(testIBAN, decimal.NewFromFloat(135.50), testReference, testDueDate)
	c2 := svc.VirtualBarcode(testIBAN, decimal.NewFromFloat(135.50), testReference, testDueDate)
	assert.Equal(t, c1, c2)
}

// Entradas ausentes degradan a cadena vacía, nunca a error ni pánico.
func TestVirtualBarcode_EntradasAusentes(t *testing.T) {
	svc := billing.NewPaymentCodeService()
	total := decimal.NewFromFloat(135.50)

	assert.Empty(t, svc.VirtualBarcode("", total, testReference, testDueDate), "sin IBAN")
	assert.Empty(t, svc.VirtualBarcode(testIBAN, total, "", testDueDate), "sin referencia")
	assert.Empty(t, svc.VirtualBarcode(testIBAN, total, testReference, ""), "sin vencimiento")
	assert.Empty(t, svc.VirtualBarcode(testIBAN, total, testReference, "14.3.2025"), "fecha mal formada")
	assert.Empty(t, svc.VirtualBarcode("FI21", total, testReference, testDueDate), "IBAN truncado")
	assert.Empty(t, svc.VirtualBarcode(testIBAN, decimal.NewFromInt(-5), testReference, testDueDate), "total negativo")
	assert.Empty(t, svc.VirtualBarcode(testIBAN, decimal.NewFromInt(1_000_000), testReference, testDueDate), "total fuera de rango")
}

func TestVirtualBarcode_CentimosRedondeados(t *testing.T) {
	svc := billing.NewPaymentCodeService()

	code := svc.VirtualBarcode(testIBAN, decimal.NewFromFloat(0.505), testReference, testDueDate)
	require.NotEmpty(t, code)
	assert.Equal(t, "00000051", code[17:25], "0,505 € redondea a 51 céntimos")
}
