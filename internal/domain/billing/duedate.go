package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

const civilDate = "2006-01-02"

// DueDate calcula la fecha de vencimiento a partir de la fecha de emisión y la
// condición de pago del cliente. Para día fijo se toma la próxima ocurrencia
// estrictamente posterior a la emisión, recortando al último día del mes cuando
// el mes es más corto (31 -> 28/29/30).
func DueDate(invoiceDate, paymentTerm string, fixedDay int) (string, error) {
	issued, err := time.Parse(civilDate, invoiceDate)
	if err != nil {
		return "", fmt.Errorf("billing: fecha de emisión inválida %q: %w", invoiceDate, err)
	}

	switch paymentTerm {
	case entity.PaymentTermNet7:
		return issued.AddDate(0, 0, 7).Format(civilDate), nil
	case "", entity.PaymentTermNet14:
		return issued.AddDate(0, 0, 14).Format(civilDate), nil
	case entity.PaymentTermNet30:
		return issued.AddDate(0, 0, 30).Format(civilDate), nil
	case entity.PaymentTermFixedDay:
		if fixedDay < 1 || fixedDay > 31 {
			return "", fmt.Errorf("billing: día fijo fuera de rango: %d", fixedDay)
		}
		due := fixedDayOfMonth(issued.Year(), issued.Month(), fixedDay)
		if !due.After(issued) {
			next := time.Date(issued.Year(), issued.Month()+1, 1, 0, 0, 0, 0, time.UTC)
			due = fixedDayOfMonth(next.Year(), next.Month(), fixedDay)
		}
		return due.Format(civilDate), nil
	default:
		return "", fmt.Errorf("billing: condición de pago desconocida: %q", paymentTerm)
	}
}

// fixedDayOfMonth día 'day' del mes dado, recortado al último día real del mes.
func fixedDayOfMonth(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
