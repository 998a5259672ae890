package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura. Transiciones permitidas:
// open -> sent -> paid; open -> cancelled; sent/paid -> credited (vía nota de crédito).
const (
	InvoiceStatusOpen      = "open"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
	InvoiceStatusCredited  = "credited"
)

// Tipos de documento.
const (
	DocTypeInvoice    = "invoice"
	DocTypeCreditNote = "credit_note"
)

// CustomerSnapshot copia inmutable de los datos del cliente en el momento de
// crear la factura. Cambios posteriores al maestro de clientes no afectan
// facturas existentes.
type CustomerSnapshot struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	BusinessID string `json:"business_id"`
	Street     string `json:"street"`
	Zip        string `json:"zip"`
	City       string `json:"city"`
	Email      string `json:"email"`
}

// Invoice representa una factura o nota de crédito. Number queda vacío hasta la
// aprobación del lote; Reference y Barcode se derivan del número y nunca se
// guardan sin él.
type Invoice struct {
	ID           string
	DocType      string
	Number       int // 0 = borrador sin numerar
	CustomerID   string
	Customer     CustomerSnapshot
	Group        string // subentidad de cartera (vacío para b2b/b2c)
	Category     string // categoría de facturación (etiqueta finlandesa)
	Status       string
	InvoiceDate  string // YYYY-MM-DD
	DueDate      string // YYYY-MM-DD
	PaymentTerm  string
	CancelReason string // motivo de anulación (obligatorio al anular)
	Reference    string // número de referencia finlandés (viitenumero)
	Barcode      string // código de barras virtual, 54 dígitos
	Rows         []InvoiceRow
	Total        decimal.Decimal // bruto, == suma de Rows con IVA
	VATPercent   decimal.Decimal
	OriginalID   string // factura original (solo notas de crédito)
	CreditNoteID string // nota de crédito emitida (solo facturas acreditadas)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Draft indica si la factura aún no recibió número consecutivo.
func (i *Invoice) Draft() bool {
	return i.Number == 0
}

// NetTotal base imponible derivada del total bruto.
func (i *Invoice) NetTotal() decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(i.VATPercent.Div(decimal.NewFromInt(100)))
	return i.Total.DivRound(divisor, 2)
}

// VATAmount cuota de IVA derivada.
func (i *Invoice) VATAmount() decimal.Decimal {
	return i.Total.Sub(i.NetTotal())
}
