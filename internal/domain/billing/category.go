package billing

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// Categorías de facturación para clientes de cartera. Las etiquetas van en
// finés porque aparecen tal cual en el título de la factura.
const (
	CategoryContracts   = "Sopimukset"      // contratos fijos mensuales
	CategoryExtras      = "Erillistyöt"     // trabajos adicionales puntuales
	CategoryMaterials   = "Tarvikkeet"      // materiales
	CategoryMaintenance = "Kiinteistöhuolto" // mantenimiento rutinario
)

// CategoryFor deriva la categoría de facturación a partir del tipo de tarea y
// el origen del registro. Solo se usa para clientes de cartera; empresas y
// particulares facturan todo en un único documento sin subdivisión.
func CategoryFor(taskType, origin string) string {
	switch {
	case taskType == entity.TaskTypeFixedMonthly,
		origin == entity.OriginContractGenerated,
		origin == entity.OriginFixedFee:
		return CategoryContracts
	case taskType == entity.TaskTypeExtra:
		return CategoryExtras
	case taskType == entity.TaskTypeMaterial:
		return CategoryMaterials
	default:
		return CategoryMaintenance
	}
}

// Mergeable indica si los registros de esta tarea se pueden fusionar en una
// sola línea por tarea y precio. Extras, materiales y cuotas fijas salen cada
// uno en su propia línea con fecha.
func Mergeable(taskType, origin string) bool {
	if origin == entity.OriginContractGenerated || origin == entity.OriginFixedFee {
		return false
	}
	switch taskType {
	case entity.TaskTypeCheckbox, entity.TaskTypeQuantity, entity.TaskTypeFixed, entity.TaskTypeHourly:
		return true
	}
	return false
}
