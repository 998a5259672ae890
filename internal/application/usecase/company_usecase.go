package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// CompanyUseCase perfil del emisor y definiciones de tarea.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Get devuelve el perfil de la empresa.
func (uc *CompanyUseCase) Get() (*dto.CompanyProfileResponse, error) {
	profile, err := uc.repo.Get()
	if err != nil || profile == nil {
		return nil, domain.ErrNotFound
	}
	return profileResponse(profile), nil
}

// Update aplica los campos presentes. Si llega la lista de tareas sustituye la
// configuración completa; las tareas nuevas sin ID reciben uno. Cambiar el tipo
// de una tarea no reescribe registros históricos: cada registro guarda el tipo
// con el que se creó.
func (uc *CompanyUseCase) Update(in dto.UpdateCompanyProfileRequest) (*dto.CompanyProfileResponse, error) {
	profile, err := uc.repo.Get()
	if err != nil || profile == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		profile.Name = *in.Name
	}
	if in.BusinessID != nil {
		profile.BusinessID = *in.BusinessID
	}
	if in.Address != nil {
		profile.Address = *in.Address
	}
	if in.Zip != nil {
		profile.Zip = *in.Zip
	}
	if in.City != nil {
		profile.City = *in.City
	}
	if in.Phone != nil {
		profile.Phone = *in.Phone
	}
	if in.Email != nil {
		profile.Email = *in.Email
	}
	if in.IBAN != nil {
		profile.IBAN = *in.IBAN
	}
	if in.BIC != nil {
		profile.BIC = *in.BIC
	}
	if in.VATPercent != nil {
		if in.VATPercent.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		profile.VATPercent = *in.VATPercent
	}
	if in.Tasks != nil {
		tasks := make([]entity.TaskDefinition, 0, len(in.Tasks))
		for _, t := range in.Tasks {
			if t.Label == "" || !validTaskType(t.Type) {
				return nil, domain.ErrInvalidInput
			}
			id := t.ID
			if id == "" {
				id = uuid.New().String()
			}
			tasks = append(tasks, entity.TaskDefinition{
				ID:             id,
				Label:          t.Label,
				Type:           t.Type,
				Color:          t.Color,
				ShowInWorkView: t.ShowInWorkView,
			})
		}
		profile.Tasks = tasks
	}
	profile.UpdatedAt = time.Now()
	if err := uc.repo.Update(profile); err != nil {
		return nil, err
	}
	return profileResponse(profile), nil
}

func validTaskType(t string) bool {
	switch t {
	case entity.TaskTypeCheckbox, entity.TaskTypeQuantity, entity.TaskTypeFixed,
		entity.TaskTypeFixedMonthly, entity.TaskTypeHourly, entity.TaskTypeExtra,
		entity.TaskTypeMaterial:
		return true
	}
	return false
}

func profileResponse(p *entity.CompanyProfile) *dto.CompanyProfileResponse {
	tasks := make([]dto.TaskDefinitionDTO, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, dto.TaskDefinitionDTO{
			ID:             t.ID,
			Label:          t.Label,
			Type:           t.Type,
			Color:          t.Color,
			ShowInWorkView: t.ShowInWorkView,
		})
	}
	return &dto.CompanyProfileResponse{
		ID:                p.ID,
		Name:              p.Name,
		BusinessID:        p.BusinessID,
		Address:           p.Address,
		Zip:               p.Zip,
		City:              p.City,
		Phone:             p.Phone,
		Email:             p.Email,
		IBAN:              p.IBAN,
		BIC:               p.BIC,
		VATPercent:        p.VATPercent,
		NextInvoiceNumber: p.NextInvoiceNumber,
		Tasks:             tasks,
		UpdatedAt:         p.UpdatedAt,
	}
}
