package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractEntry entrada del mapa de contratos en peticiones y respuestas.
type ContractEntry struct {
	Active bool            `json:"active"`
	Price  decimal.Decimal `json:"price"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name        string                   `json:"name" validate:"required,min=1,max=200"`
	Type        string                   `json:"type" validate:"required,oneof=portfolio business private"`
	BusinessID  string                   `json:"business_id"`
	Street      string                   `json:"street"`
	Zip         string                   `json:"zip"`
	City        string                   `json:"city"`
	Phone       string                   `json:"phone"`
	Email       string                   `json:"email" validate:"omitempty,email"`
	PaymentTerm string                   `json:"payment_term" validate:"omitempty,oneof=7pv 14pv 30pv fixed"`
	FixedDueDay int                      `json:"fixed_due_day"`
	GroupNames  []string                 `json:"group_names"`
	Contracts   map[string]ContractEntry `json:"contracts"`
}

// UpdateCustomerRequest campos opcionales para PUT /api/customers/:id.
type UpdateCustomerRequest struct {
	Name        *string                  `json:"name"`
	Type        *string                  `json:"type" validate:"omitempty,oneof=portfolio business private"`
	BusinessID  *string                  `json:"business_id"`
	Street      *string                  `json:"street"`
	Zip         *string                  `json:"zip"`
	City        *string                  `json:"city"`
	Phone       *string                  `json:"phone"`
	Email       *string                  `json:"email" validate:"omitempty,email"`
	PaymentTerm *string                  `json:"payment_term" validate:"omitempty,oneof=7pv 14pv 30pv fixed"`
	FixedDueDay *int                     `json:"fixed_due_day"`
	GroupNames  []string                 `json:"group_names"`
	Contracts   map[string]ContractEntry `json:"contracts"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Type        string                   `json:"type"`
	BusinessID  string                   `json:"business_id,omitempty"`
	Street      string                   `json:"street,omitempty"`
	Zip         string                   `json:"zip,omitempty"`
	City        string                   `json:"city,omitempty"`
	Phone       string                   `json:"phone,omitempty"`
	Email       string                   `json:"email,omitempty"`
	PaymentTerm string                   `json:"payment_term"`
	FixedDueDay int                      `json:"fixed_due_day,omitempty"`
	GroupNames  []string                 `json:"group_names,omitempty"`
	Contracts   map[string]ContractEntry `json:"contracts"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// CreatePropertyRequest body para POST /api/properties.
type CreatePropertyRequest struct {
	CustomerID string                   `json:"customer_id" validate:"required,uuid"`
	Address    string                   `json:"address" validate:"required,min=1,max=300"`
	Group      string                   `json:"group"`
	CostCenter string                   `json:"cost_center"`
	Contracts  map[string]ContractEntry `json:"contracts"`
}

// UpdatePropertyRequest campos opcionales para PUT /api/properties/:id.
type UpdatePropertyRequest struct {
	Address    *string                  `json:"address"`
	Group      *string                  `json:"group"`
	CostCenter *string                  `json:"cost_center"`
	Contracts  map[string]ContractEntry `json:"contracts"`
}

// PropertyResponse propiedad en respuestas.
type PropertyResponse struct {
	ID         string                   `json:"id"`
	CustomerID string                   `json:"customer_id"`
	Address    string                   `json:"address"`
	Group      string                   `json:"group,omitempty"`
	CostCenter string                   `json:"cost_center,omitempty"`
	Contracts  map[string]ContractEntry `json:"contracts"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// ContractedTargetResponse destino con contrato activo para una tarea
// (GET /api/tasks/:id/targets). Property va vacío para contratos a nivel de cliente.
type ContractedTargetResponse struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	PropertyID   string          `json:"property_id,omitempty"`
	Address      string          `json:"address,omitempty"`
	Group        string          `json:"group,omitempty"`
	Price        decimal.Decimal `json:"price"`
}
