// Cálculo del número de referencia finlandés (viitenumero) y del código de
// barras virtual de pago según la guía de Finanssiala (Pankkiviivakoodi, versión 4).

package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Pesos del dígito de control del viitenumero, ciclando desde el dígito menos
// significativo.
var referenceWeights = [3]int{7, 3, 1}

// PaymentCodeService deriva los códigos de pago de una factura. Funciones puras
// del número de factura, total bruto, IBAN y fecha de vencimiento.
type PaymentCodeService struct{}

// NewPaymentCodeService crea el servicio.
func NewPaymentCodeService() *PaymentCodeService {
	return &PaymentCodeService{}
}

// ReferenceNumber calcula el número de referencia: base numérica de la factura
// más el dígito de control ((10 - suma%10) % 10 con pesos 7,3,1).
func (s *PaymentCodeService) ReferenceNumber(invoiceNumber string) (string, error) {
	base := onlyDigits(invoiceNumber)
	if base == "" {
		return "", fmt.Errorf("billing: número de factura sin dígitos: %q", invoiceNumber)
	}

	sum := 0
	for i := 0; i < len(base); i++ {
		d := int(base[len(base)-1-i] - '0')
		sum += d * referenceWeights[i%3]
	}
	check := (10 - sum%10) % 10
	return fmt.Sprintf("%s%d", base, check), nil
}

// VirtualBarcode construye la cadena de 54 dígitos del código de barras virtual:
// versión '4' + 16 dígitos del IBAN + total (6 euros + 2 céntimos) + relleno
// '000' + referencia a 20 dígitos + vencimiento YYMMDD. Cualquier entrada
// ausente o no representable produce cadena vacía, nunca error: la función
// degrada y la factura simplemente se imprime sin bloque de pago.
func (s *PaymentCodeService) VirtualBarcode(iban string, total decimal.Decimal, reference, dueDate string) string {
	ibanDigits := onlyDigits(iban)
	if len(ibanDigits) < 16 {
		return ""
	}
	ibanDigits = ibanDigits[:16]

	if total.IsNegative() {
		return ""
	}
	cents := total.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
	if cents > 99999999 {
		return ""
	}

	ref := onlyDigits(reference)
	if ref == "" || len(ref) > 20 {
		return ""
	}

	due, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		return ""
	}

	return "4" + ibanDigits +
		fmt.Sprintf("%08d", cents) +
		"000" +
		fmt.Sprintf("%020s", ref) +
		due.Format("060102")
}

// onlyDigits deja solo dígitos 0-9 (IBAN y referencias llegan con espacios).
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
