package entity

import "time"

// Property representa un inmueble/ubicación donde se realiza el trabajo.
// Pertenece a exactamente un cliente. Su ContractMap sobrescribe la tarifa del
// cliente únicamente para las tareas marcadas activas aquí.
type Property struct {
	ID         string
	CustomerID string
	Address    string
	Group      string // etiqueta de grupo (subentidad de cartera), opcional
	CostCenter string // código de centro de costes (KP), opcional
	Contracts  ContractMap
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
