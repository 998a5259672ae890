package entity

import "github.com/shopspring/decimal"

// InvoiceRow una línea de factura. Puede ser una cabecera de agrupación (sin
// importe) o una línea de cargo. Total va en bruto (IVA incluido); Details
// lleva la descomposición legible (cantidad, precio unitario neto, fechas).
type InvoiceRow struct {
	Header      bool            `json:"header,omitempty"`
	Description string          `json:"description"`
	Details     string          `json:"details,omitempty"`
	Dates       string          `json:"dates,omitempty"` // lista "d.M." ordenada
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"` // neto por unidad
	Total       decimal.Decimal `json:"total"`      // bruto
	TaskID      string          `json:"task_id,omitempty"`
	EntryIDs    []string        `json:"entry_ids,omitempty"` // registros de trabajo cubiertos
}
