package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceRowDTO línea de factura en borradores y respuestas. Total va en bruto
// (IVA incluido); UnitPrice es el precio unitario sin IVA de líneas fusionadas.
type InvoiceRowDTO struct {
	Header      bool            `json:"header,omitempty"`
	Description string          `json:"description"`
	Details     string          `json:"details,omitempty"`
	Dates       string          `json:"dates,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	TaskID      string          `json:"task_id,omitempty"`
	EntryIDs    []string        `json:"entry_ids,omitempty"`
}

// SyntheticEntryDTO cuota mensual sintetizada, aún sin persistir. Viaja dentro
// del borrador para que la aprobación pueda materializarla como registro real.
type SyntheticEntryDTO struct {
	TaskID          string          `json:"task_id"`
	TaskName        string          `json:"task_name"`
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	PropertyID      string          `json:"property_id,omitempty"`
	PropertyAddress string          `json:"property_address,omitempty"`
	Group           string          `json:"group,omitempty"`
	CostCenter      string          `json:"cost_center,omitempty"`
	Date            string          `json:"date"` // fin de mes YYYY-MM-DD
	PriceWork       decimal.Decimal `json:"price_work"`
}

// InvoiceDraftDTO borrador de factura producido por la agregación mensual.
// Existe solo en memoria hasta la aprobación.
type InvoiceDraftDTO struct {
	CustomerID       string              `json:"customer_id"`
	CustomerName     string              `json:"customer_name"`
	Title            string              `json:"title"`
	Group            string              `json:"group,omitempty"`
	Category         string              `json:"category,omitempty"`
	Rows             []InvoiceRowDTO     `json:"rows"`
	GrossTotal       decimal.Decimal     `json:"gross_total"`
	SourceEntryIDs   []string            `json:"source_entry_ids"`
	SyntheticEntries []SyntheticEntryDTO `json:"synthetic_entries,omitempty"`
}

// GenerateDraftsResponse respuesta de POST /api/billing/drafts.
type GenerateDraftsResponse struct {
	Month  string            `json:"month"` // YYYY-MM
	Drafts []InvoiceDraftDTO `json:"drafts"`
}

// ApproveInvoicesRequest body para POST /api/billing/approve: los borradores
// seleccionados tal como los devolvió la agregación, más la fecha de emisión.
type ApproveInvoicesRequest struct {
	InvoiceDate string            `json:"invoice_date" validate:"required"` // YYYY-MM-DD
	Drafts      []InvoiceDraftDTO `json:"drafts" validate:"required,min=1"`
}

// QuickInvoiceRequest factura manual: nombre de cliente en texto libre (se
// reutiliza el cliente existente o se crea uno nuevo) y líneas a mano alzada.
type QuickInvoiceRequest struct {
	CustomerName string                 `json:"customer_name" validate:"required,min=1"`
	CustomerType string                 `json:"customer_type" validate:"omitempty,oneof=portfolio business private"`
	InvoiceDate  string                 `json:"invoice_date" validate:"required"`
	Rows         []QuickInvoiceRowInput `json:"rows" validate:"required,min=1"`
}

// QuickInvoiceRowInput línea manual con componentes de trabajo y materiales sin IVA.
type QuickInvoiceRowInput struct {
	Description   string          `json:"description" validate:"required"`
	PriceWork     decimal.Decimal `json:"price_work"`
	PriceMaterial decimal.Decimal `json:"price_material"`
}

// QuickInvoiceResponse incluye si el cliente fue reutilizado o creado al vuelo.
type QuickInvoiceResponse struct {
	Invoice         InvoiceResponse `json:"invoice"`
	CustomerCreated bool            `json:"customer_created"`
}

// CancelInvoiceRequest body para POST /api/invoices/:id/cancel.
type CancelInvoiceRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// CreditNoteRequest body para POST /api/invoices/:id/credit-note.
type CreditNoteRequest struct {
	Reason string `json:"reason"`
}

// UpdateInvoiceRowsRequest edición de líneas de una factura abierta. Los
// importes llegan según el convenio del cliente (netos para empresa/cartera,
// brutos para particulares); el total se recalcula siempre en el servidor.
type UpdateInvoiceRowsRequest struct {
	Rows []InvoiceRowInput `json:"rows" validate:"required,min=1"`
}

// InvoiceRowInput línea editada.
type InvoiceRowInput struct {
	Header      bool            `json:"header,omitempty"`
	Description string          `json:"description"`
	Details     string          `json:"details,omitempty"`
	Dates       string          `json:"dates,omitempty"`
	Amount      decimal.Decimal `json:"amount"` // neta o bruta según tipo de cliente
}

// InvoiceFilterRequest parámetros de consulta del archivo (GET /api/invoices).
type InvoiceFilterRequest struct {
	CustomerID string `query:"customer_id"`
	Status     string `query:"status"`
	DocType    string `query:"doc_type"`
	From       string `query:"from"`
	To         string `query:"to"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// CustomerSnapshotDTO datos del cliente congelados en la factura.
type CustomerSnapshotDTO struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	BusinessID string `json:"business_id,omitempty"`
	Street     string `json:"street,omitempty"`
	Zip        string `json:"zip,omitempty"`
	City       string `json:"city,omitempty"`
	Email      string `json:"email,omitempty"`
}

// InvoiceResponse factura completa para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID           string              `json:"id"`
	DocType      string              `json:"doc_type"`
	Number       int                 `json:"number"`
	CustomerID   string              `json:"customer_id"`
	Customer     CustomerSnapshotDTO `json:"customer"`
	Group        string              `json:"group,omitempty"`
	Category     string              `json:"category,omitempty"`
	Status       string              `json:"status"`
	InvoiceDate  string              `json:"invoice_date"`
	DueDate      string              `json:"due_date"`
	PaymentTerm  string              `json:"payment_term,omitempty"`
	Reference    string              `json:"reference,omitempty"`
	Barcode      string              `json:"barcode,omitempty"`
	Rows         []InvoiceRowDTO     `json:"rows"`
	Total        decimal.Decimal     `json:"total"`
	NetTotal     decimal.Decimal     `json:"net_total"`
	VATAmount    decimal.Decimal     `json:"vat_amount"`
	VATPercent   decimal.Decimal     `json:"vat_percent"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	OriginalID   string              `json:"original_id,omitempty"`
	CreditNoteID string              `json:"credit_note_id,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// PaymentTermPreviewResponse GET /api/billing/due-date: vencimiento y códigos
// de pago calculados sin persistir nada.
type PaymentTermPreviewResponse struct {
	InvoiceDate string `json:"invoice_date"`
	PaymentTerm string `json:"payment_term"`
	DueDate     string `json:"due_date"`
}

// InvoiceFromEntity mapea la entidad a la respuesta HTTP.
func InvoiceFromEntity(inv *entity.Invoice) InvoiceResponse {
	rows := make([]InvoiceRowDTO, 0, len(inv.Rows))
	for _, r := range inv.Rows {
		rows = append(rows, InvoiceRowDTO{
			Header:      r.Header,
			Description: r.Description,
			Details:     r.Details,
			Dates:       r.Dates,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Total:       r.Total,
			TaskID:      r.TaskID,
			EntryIDs:    r.EntryIDs,
		})
	}
	return InvoiceResponse{
		ID:      inv.ID,
		DocType: inv.DocType,
		Number:  inv.Number,
		Customer: CustomerSnapshotDTO{
			Name:       inv.Customer.Name,
			Type:       inv.Customer.Type,
			BusinessID: inv.Customer.BusinessID,
			Street:     inv.Customer.Street,
			Zip:        inv.Customer.Zip,
			City:       inv.Customer.City,
			Email:      inv.Customer.Email,
		},
		CustomerID:   inv.CustomerID,
		Group:        inv.Group,
		Category:     inv.Category,
		Status:       inv.Status,
		InvoiceDate:  inv.InvoiceDate,
		DueDate:      inv.DueDate,
		PaymentTerm:  inv.PaymentTerm,
		Reference:    inv.Reference,
		Barcode:      inv.Barcode,
		Rows:         rows,
		Total:        inv.Total,
		NetTotal:     inv.NetTotal(),
		VATAmount:    inv.VATAmount(),
		VATPercent:   inv.VATPercent,
		CancelReason: inv.CancelReason,
		OriginalID:   inv.OriginalID,
		CreditNoteID: inv.CreditNoteID,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}
