package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWorkEntryRequest body para POST /api/work-entries. El precio no viaja en
// la petición: se resuelve con la jerarquía de contratos y queda sellado en el
// registro. Para extras y materiales (registro puntual) sí se aceptan importes
// libres sin IVA.
type CreateWorkEntryRequest struct {
	TaskID        string          `json:"task_id" validate:"required"`
	CustomerID    string          `json:"customer_id" validate:"required,uuid"`
	PropertyID    string          `json:"property_id" validate:"omitempty,uuid"`
	Date          string          `json:"date" validate:"required"` // YYYY-MM-DD
	Quantity      decimal.Decimal `json:"quantity"`
	PriceWork     decimal.Decimal `json:"price_work"`     // solo extra/material
	PriceMaterial decimal.Decimal `json:"price_material"` // solo material
	Description   string          `json:"description"`
}

// WorkEntryFilterRequest parámetros de consulta para GET /api/work-entries.
type WorkEntryFilterRequest struct {
	CustomerID string `query:"customer_id"`
	PropertyID string `query:"property_id"`
	TaskID     string `query:"task_id"`
	From       string `query:"from"` // YYYY-MM-DD inclusivo
	To         string `query:"to"`
	Origin     string `query:"origin"`
	Invoiced   string `query:"invoiced"` // "true"|"false"|vacío
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// WorkEntryResponse registro de trabajo en respuestas.
type WorkEntryResponse struct {
	ID              string          `json:"id"`
	TaskID          string          `json:"task_id"`
	TaskName        string          `json:"task_name"`
	TaskType        string          `json:"task_type"`
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	PropertyID      string          `json:"property_id,omitempty"`
	PropertyAddress string          `json:"property_address,omitempty"`
	Group           string          `json:"group,omitempty"`
	CostCenter      string          `json:"cost_center,omitempty"`
	Date            string          `json:"date"`
	Quantity        decimal.Decimal `json:"quantity"`
	PriceWork       decimal.Decimal `json:"price_work"`
	PriceMaterial   decimal.Decimal `json:"price_material"`
	Description     string          `json:"description,omitempty"`
	Origin          string          `json:"origin"`
	Invoiced        bool            `json:"invoiced"`
	InvoiceID       string          `json:"invoice_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
