// Package billing: reglas puras de facturación (resolución de precios,
// derivación de categorías y códigos de pago). Sin efectos secundarios.

package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ResolvePrice resuelve el precio unitario de una tarea según la jerarquía de
// contratos: la propiedad sobrescribe al cliente solo si su entrada está activa;
// si ninguno tiene contrato activo devuelve ErrNotContracted. La misma jerarquía
// se aplica al registrar trabajo de campo y al sintetizar cuotas mensuales:
// quien llama debe excluir la tarea, nunca facturar cero.
func ResolvePrice(customer *entity.Customer, property *entity.Property, taskID string) (decimal.Decimal, error) {
	if property != nil {
		if c, ok := property.Contracts.ActiveContract(taskID); ok {
			return c.Price, nil
		}
	}
	if customer != nil {
		if c, ok := customer.Contracts.ActiveContract(taskID); ok {
			return c.Price, nil
		}
	}
	return decimal.Zero, domain.ErrNotContracted
}
