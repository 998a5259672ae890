package entity

import "github.com/shopspring/decimal"

// Tipos de tarea (valores heredados del modelo de datos original de la empresa).
const (
	TaskTypeCheckbox     = "checkbox"      // ocurrencia binaria (hecho / no hecho)
	TaskTypeQuantity     = "kg"            // por cantidad (peso)
	TaskTypeFixed        = "fixed"         // precio fijo por una sola vez
	TaskTypeFixedMonthly = "fixed_monthly" // contrato fijo mensual (se sintetiza sin registro de campo)
	TaskTypeHourly       = "hourly"        // por horas
	TaskTypeExtra        = "extra"         // trabajo adicional puntual
	TaskTypeMaterial     = "material"      // trabajo con materiales
)

// TaskDefinition define una tarea facturable. Las definiciones viven embebidas en
// el perfil de la empresa; cambiar el tipo de una tarea no altera registros históricos.
type TaskDefinition struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Type           string `json:"type"`
	Color          string `json:"color"`
	ShowInWorkView bool   `json:"show_in_work_view"`
}

// Contract entrada del mapa de contratos: tarea activa y su precio unitario (sin IVA).
type Contract struct {
	Active bool            `json:"active"`
	Price  decimal.Decimal `json:"price"`
}

// ContractMap mapa tarea-id -> contrato. Presente tanto en Customer (tarifa por
// defecto) como en Property (tarifa que sobrescribe la del cliente).
type ContractMap map[string]Contract

// ActiveContract devuelve el contrato de la tarea si existe y está activo.
func (m ContractMap) ActiveContract(taskID string) (Contract, bool) {
	c, ok := m[taskID]
	if !ok || !c.Active {
		return Contract{}, false
	}
	return c, true
}
