package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// PropertyUseCase casos de uso de propiedades (inmuebles).
type PropertyUseCase struct {
	propertyRepo repository.PropertyRepository
	customerRepo repository.CustomerRepository
}

// NewPropertyUseCase construye el caso de uso.
func NewPropertyUseCase(propertyRepo repository.PropertyRepository, customerRepo repository.CustomerRepository) *PropertyUseCase {
	return &PropertyUseCase{propertyRepo: propertyRepo, customerRepo: customerRepo}
}

// Create crea una propiedad para un cliente existente.
func (uc *PropertyUseCase) Create(in dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	address := strings.TrimSpace(in.Address)
	if in.CustomerID == "" || address == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	property := &entity.Property{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		Address:    address,
		Group:      in.Group,
		CostCenter: in.CostCenter,
		Contracts:  contractMapFromDTO(in.Contracts),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.propertyRepo.Create(property); err != nil {
		return nil, err
	}
	resp := propertyResponse(property)
	return &resp, nil
}

// Get devuelve una propiedad por ID.
func (uc *PropertyUseCase) Get(id string) (*dto.PropertyResponse, error) {
	property, err := uc.propertyRepo.GetByID(id)
	if err != nil || property == nil {
		return nil, domain.ErrNotFound
	}
	resp := propertyResponse(property)
	return &resp, nil
}

// List lista propiedades, opcionalmente de un cliente.
func (uc *PropertyUseCase) List(customerID string) ([]dto.PropertyResponse, error) {
	var list []*entity.Property
	var err error
	if customerID != "" {
		list, err = uc.propertyRepo.ListByCustomer(customerID)
	} else {
		list, err = uc.propertyRepo.ListAll()
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.PropertyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, propertyResponse(p))
	}
	return out, nil
}

// Update actualiza los campos presentes en la petición.
func (uc *PropertyUseCase) Update(id string, in dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	property, err := uc.propertyRepo.GetByID(id)
	if err != nil || property == nil {
		return nil, domain.ErrNotFound
	}
	if in.Address != nil {
		address := strings.TrimSpace(*in.Address)
		if address == "" {
			return nil, domain.ErrInvalidInput
		}
		property.Address = address
	}
	if in.Group != nil {
		property.Group = *in.Group
	}
	if in.CostCenter != nil {
		property.CostCenter = *in.CostCenter
	}
	if in.Contracts != nil {
		property.Contracts = contractMapFromDTO(in.Contracts)
	}
	property.UpdatedAt = time.Now()
	if err := uc.propertyRepo.Update(property); err != nil {
		return nil, err
	}
	resp := propertyResponse(property)
	return &resp, nil
}

// Delete elimina una propiedad.
func (uc *PropertyUseCase) Delete(id string) error {
	property, err := uc.propertyRepo.GetByID(id)
	if err != nil || property == nil {
		return domain.ErrNotFound
	}
	return uc.propertyRepo.Delete(id)
}

func propertyResponse(p *entity.Property) dto.PropertyResponse {
	return dto.PropertyResponse{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		Address:    p.Address,
		Group:      p.Group,
		CostCenter: p.CostCenter,
		Contracts:  contractMapToDTO(p.Contracts),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
