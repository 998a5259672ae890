package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orígenes de un registro de trabajo.
const (
	OriginFieldEntry        = "field_entry"        // registrado por el trabajador de campo
	OriginAdHocEntry        = "ad_hoc_entry"       // registro puntual (extra, material, horas, kg)
	OriginContractGenerated = "contract_generated" // sintetizado en memoria por el sintetizador de cuotas
	OriginFixedFee          = "fixed_fee"          // cuota fija persistida al aprobar la factura
)

// WorkEntry es la unidad atómica de actividad facturable. Los nombres de tarea,
// cliente y dirección van desnormalizados, igual que en el modelo original: un
// registro describe lo que pasó ese día aunque el maestro cambie después.
//
// Invariante: Invoiced == true implica InvoiceID != ""; un registro facturado solo
// se modifica por la ruta de rollback (borrado permanente de la factura).
type WorkEntry struct {
	ID              string
	TaskID          string
	TaskName        string
	TaskType        string
	CustomerID      string
	CustomerName    string
	PropertyID      string // vacío = registro a nivel de cliente
	PropertyAddress string
	Group           string
	CostCenter      string
	Date            string          // fecha civil YYYY-MM-DD
	Quantity        decimal.Decimal // tareas tipo kg (peso) u hourly (horas)
	PriceWork       decimal.Decimal // componente de trabajo, sin IVA
	PriceMaterial   decimal.Decimal // componente de materiales, sin IVA
	Description     string
	Origin          string
	Invoiced        bool
	InvoiceID       string
	CreatedAt       time.Time
}

// Synthetic indica si el registro existe solo en memoria (aún sin persistir).
func (e *WorkEntry) Synthetic() bool {
	return e.Origin == OriginContractGenerated
}
