// Package worklog casos de uso del registro de trabajos de campo.
package worklog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// UseCase registra y consulta trabajos. El precio se sella en el registro al
// crearlo con la jerarquía de contratos: cambios de tarifa posteriores no
// tocan lo ya registrado.
type UseCase struct {
	entryRepo    repository.WorkEntryRepository
	customerRepo repository.CustomerRepository
	propertyRepo repository.PropertyRepository
	companyRepo  repository.CompanyRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	entryRepo repository.WorkEntryRepository,
	customerRepo repository.CustomerRepository,
	propertyRepo repository.PropertyRepository,
	companyRepo repository.CompanyRepository,
) *UseCase {
	return &UseCase{
		entryRepo:    entryRepo,
		customerRepo: customerRepo,
		propertyRepo: propertyRepo,
		companyRepo:  companyRepo,
	}
}

// Create registra un trabajo. Tareas contratadas (checkbox, kg, fijo, horas)
// toman el precio del contrato y origen field_entry; extras y materiales llevan
// importes libres y origen ad_hoc_entry.
func (uc *UseCase) Create(in dto.CreateWorkEntryRequest) (*dto.WorkEntryResponse, error) {
	if in.TaskID == "" || in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, in.Date)
	}

	profile, err := uc.companyRepo.Get()
	if err != nil || profile == nil {
		return nil, domain.ErrNotFound
	}
	task, ok := profile.Task(in.TaskID)
	if !ok {
		return nil, fmt.Errorf("%w: tarea %s", domain.ErrNotFound, in.TaskID)
	}
	if task.Type == entity.TaskTypeFixedMonthly {
		// Las cuotas mensuales las sintetiza la facturación, no el campo.
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
	}
	var property *entity.Property
	if in.PropertyID != "" {
		property, err = uc.propertyRepo.GetByID(in.PropertyID)
		if err != nil || property == nil {
			return nil, fmt.Errorf("%w: propiedad %s", domain.ErrNotFound, in.PropertyID)
		}
		if property.CustomerID != customer.ID {
			return nil, domain.ErrInvalidInput
		}
	}

	entry := &entity.WorkEntry{
		ID:           uuid.New().String(),
		TaskID:       task.ID,
		TaskName:     task.Label,
		TaskType:     task.Type,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Date:         in.Date,
		Quantity:     in.Quantity,
		Description:  in.Description,
		CreatedAt:    time.Now(),
	}
	if property != nil {
		entry.PropertyID = property.ID
		entry.PropertyAddress = property.Address
		entry.Group = property.Group
		entry.CostCenter = property.CostCenter
	}

	switch task.Type {
	case entity.TaskTypeExtra, entity.TaskTypeMaterial:
		if !in.PriceWork.IsPositive() && !in.PriceMaterial.IsPositive() {
			return nil, fmt.Errorf("%w: importe del trabajo puntual", domain.ErrMissingField)
		}
		entry.Origin = entity.OriginAdHocEntry
		entry.PriceWork = in.PriceWork
		entry.PriceMaterial = in.PriceMaterial
	default:
		price, err := domainbilling.ResolvePrice(customer, property, task.ID)
		if err != nil {
			return nil, err
		}
		if (task.Type == entity.TaskTypeQuantity || task.Type == entity.TaskTypeHourly) && !in.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad", domain.ErrMissingField)
		}
		entry.Origin = entity.OriginFieldEntry
		entry.PriceWork = price
	}

	if err := uc.entryRepo.Create(entry); err != nil {
		return nil, err
	}
	resp := entryResponse(entry)
	return &resp, nil
}

// Get devuelve un registro por ID.
func (uc *UseCase) Get(id string) (*dto.WorkEntryResponse, error) {
	entry, err := uc.entryRepo.GetByID(id)
	if err != nil || entry == nil {
		return nil, domain.ErrNotFound
	}
	resp := entryResponse(entry)
	return &resp, nil
}

// List consulta registros con los filtros dados.
func (uc *UseCase) List(in dto.WorkEntryFilterRequest) ([]dto.WorkEntryResponse, error) {
	filter := repository.WorkEntryFilter{
		CustomerID: in.CustomerID,
		PropertyID: in.PropertyID,
		TaskID:     in.TaskID,
		FromDate:   in.From,
		ToDate:     in.To,
		Origin:     in.Origin,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	switch in.Invoiced {
	case "true":
		v := true
		filter.Invoiced = &v
	case "false":
		v := false
		filter.Invoiced = &v
	case "":
	default:
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	list, err := uc.entryRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, entryResponse(e))
	}
	return out, nil
}

// UpdateDescription edita la descripción de un registro aún no facturado.
func (uc *UseCase) UpdateDescription(id, description string) (*dto.WorkEntryResponse, error) {
	entry, err := uc.entryRepo.GetByID(id)
	if err != nil || entry == nil {
		return nil, domain.ErrNotFound
	}
	if entry.Invoiced {
		return nil, domain.ErrAlreadyInvoiced
	}
	entry.Description = description
	if err := uc.entryRepo.Update(entry); err != nil {
		return nil, err
	}
	resp := entryResponse(entry)
	return &resp, nil
}

// Delete elimina un registro. Los facturados solo salen por el rollback de la
// factura, nunca por aquí.
func (uc *UseCase) Delete(id string) error {
	entry, err := uc.entryRepo.GetByID(id)
	if err != nil || entry == nil {
		return domain.ErrNotFound
	}
	if entry.Invoiced {
		return domain.ErrAlreadyInvoiced
	}
	return uc.entryRepo.Delete(id)
}

func entryResponse(e *entity.WorkEntry) dto.WorkEntryResponse {
	return dto.WorkEntryResponse{
		ID:              e.ID,
		TaskID:          e.TaskID,
		TaskName:        e.TaskName,
		TaskType:        e.TaskType,
		CustomerID:      e.CustomerID,
		CustomerName:    e.CustomerName,
		PropertyID:      e.PropertyID,
		PropertyAddress: e.PropertyAddress,
		Group:           e.Group,
		CostCenter:      e.CostCenter,
		Date:            e.Date,
		Quantity:        e.Quantity,
		PriceWork:       e.PriceWork,
		PriceMaterial:   e.PriceMaterial,
		Description:     e.Description,
		Origin:          e.Origin,
		Invoiced:        e.Invoiced,
		InvoiceID:       e.InvoiceID,
		CreatedAt:       e.CreatedAt,
	}
}
