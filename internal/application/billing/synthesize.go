package billing

import (
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// BilledKey identifica una cuota mensual ya facturada: la tripleta
// (cliente, propiedad-o-nada, tarea) dentro del mes objetivo.
type BilledKey struct {
	CustomerID string
	PropertyID string
	TaskID     string
}

// SynthesizeCharges genera en memoria las cuotas fijas mensuales del mes:
// una por propiedad con la tarea activa en su propio mapa de contratos, y una
// por cliente particular con la tarea activa a nivel de cliente (empresas y
// carteras solo facturan cuotas por propiedad). Se omite toda tripleta ya
// presente en alreadyBilled. Las entradas devueltas no están persistidas:
// la aprobación las materializa con origen fixed_fee.
func SynthesizeCharges(
	monthEnd string,
	profile *entity.CompanyProfile,
	customers []*entity.Customer,
	properties []*entity.Property,
	alreadyBilled map[BilledKey]bool,
) []*entity.WorkEntry {
	customersByID := make(map[string]*entity.Customer, len(customers))
	for _, c := range customers {
		customersByID[c.ID] = c
	}

	var out []*entity.WorkEntry
	for _, task := range profile.Tasks {
		if task.Type != entity.TaskTypeFixedMonthly {
			continue
		}

		for _, prop := range properties {
			contract, ok := prop.Contracts.ActiveContract(task.ID)
			if !ok {
				continue
			}
			customer := customersByID[prop.CustomerID]
			if customer == nil {
				continue
			}
			key := BilledKey{CustomerID: customer.ID, PropertyID: prop.ID, TaskID: task.ID}
			if alreadyBilled[key] {
				continue
			}
			out = append(out, &entity.WorkEntry{
				TaskID:          task.ID,
				TaskName:        task.Label,
				TaskType:        task.Type,
				CustomerID:      customer.ID,
				CustomerName:    customer.Name,
				PropertyID:      prop.ID,
				PropertyAddress: prop.Address,
				Group:           prop.Group,
				CostCenter:      prop.CostCenter,
				Date:            monthEnd,
				PriceWork:       contract.Price,
				Origin:          entity.OriginContractGenerated,
			})
		}

		for _, customer := range customers {
			if customer.Type != entity.CustomerTypePrivate {
				continue
			}
			contract, ok := customer.Contracts.ActiveContract(task.ID)
			if !ok {
				continue
			}
			key := BilledKey{CustomerID: customer.ID, TaskID: task.ID}
			if alreadyBilled[key] {
				continue
			}
			out = append(out, &entity.WorkEntry{
				TaskID:       task.ID,
				TaskName:     task.Label,
				TaskType:     task.Type,
				CustomerID:   customer.ID,
				CustomerName: customer.Name,
				Date:         monthEnd,
				PriceWork:    contract.Price,
				Origin:       entity.OriginContractGenerated,
			})
		}
	}
	return out
}
