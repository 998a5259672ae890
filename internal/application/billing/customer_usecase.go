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

// CustomerUseCase casos de uso de clientes y del listado de destinos contratados.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
	propertyRepo repository.PropertyRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(
	customerRepo repository.CustomerRepository,
	propertyRepo repository.PropertyRepository,
	invoiceRepo repository.InvoiceRepository,
) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		propertyRepo: propertyRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || !validCustomerType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.customerRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	paymentTerm := in.PaymentTerm
	if paymentTerm == "" {
		paymentTerm = entity.PaymentTermNet14
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        in.Type,
		BusinessID:  in.BusinessID,
		Street:      in.Street,
		Zip:         in.Zip,
		City:        in.City,
		Phone:       in.Phone,
		Email:       in.Email,
		PaymentTerm: paymentTerm,
		FixedDueDay: in.FixedDueDay,
		GroupNames:  in.GroupNames,
		Contracts:   contractMapFromDTO(in.Contracts),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	resp := customerResponse(customer)
	return &resp, nil
}

// Get devuelve un cliente por ID.
func (uc *CustomerUseCase) Get(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	resp := customerResponse(customer)
	return &resp, nil
}

// List lista clientes, opcionalmente por tipo.
func (uc *CustomerUseCase) List(customerType string, limit, offset int) ([]dto.CustomerResponse, error) {
	var list []*entity.Customer
	var err error
	if customerType != "" {
		if !validCustomerType(customerType) {
			return nil, domain.ErrInvalidInput
		}
		list, err = uc.customerRepo.ListByType(customerType)
	} else {
		if limit <= 0 {
			limit = 100
		}
		if offset < 0 {
			offset = 0
		}
		list, err = uc.customerRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, customerResponse(c))
	}
	return out, nil
}

// Update actualiza los campos presentes en la petición.
func (uc *CustomerUseCase) Update(id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		customer.Name = name
	}
	if in.Type != nil {
		if !validCustomerType(*in.Type) {
			return nil, domain.ErrInvalidInput
		}
		customer.Type = *in.Type
	}
	if in.BusinessID != nil {
		customer.BusinessID = *in.BusinessID
	}
	if in.Street != nil {
		customer.Street = *in.Street
	}
	if in.Zip != nil {
		customer.Zip = *in.Zip
	}
	if in.City != nil {
		customer.City = *in.City
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.PaymentTerm != nil {
		customer.PaymentTerm = *in.PaymentTerm
	}
	if in.FixedDueDay != nil {
		customer.FixedDueDay = *in.FixedDueDay
	}
	if in.GroupNames != nil {
		customer.GroupNames = in.GroupNames
	}
	if in.Contracts != nil {
		customer.Contracts = contractMapFromDTO(in.Contracts)
	}
	customer.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	resp := customerResponse(customer)
	return &resp, nil
}

// Delete elimina un cliente. Se rechaza mientras tenga facturas en el archivo:
// el historial emitido nunca pierde a su destinatario.
func (uc *CustomerUseCase) Delete(id string) error {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil || customer == nil {
		return domain.ErrNotFound
	}
	invoices, err := uc.invoiceRepo.List(repository.InvoiceFilter{CustomerID: id, Limit: 1})
	if err != nil {
		return err
	}
	if len(invoices) > 0 {
		return domain.ErrConflict
	}
	return uc.customerRepo.Delete(id)
}

// ListContractedTargets destinos con contrato activo para una tarea: todas las
// propiedades que la activan en su propio mapa más los clientes que la activan
// a nivel de cliente.
func (uc *CustomerUseCase) ListContractedTargets(taskID string) ([]dto.ContractedTargetResponse, error) {
	if taskID == "" {
		return nil, domain.ErrInvalidInput
	}
	properties, err := uc.propertyRepo.ListWithActiveTask(taskID)
	if err != nil {
		return nil, err
	}
	customers, err := uc.customerRepo.List(0, 0)
	if err != nil {
		return nil, err
	}
	customersByID := make(map[string]*entity.Customer, len(customers))
	for _, c := range customers {
		customersByID[c.ID] = c
	}

	var out []dto.ContractedTargetResponse
	for _, p := range properties {
		contract, ok := p.Contracts.ActiveContract(taskID)
		if !ok {
			continue
		}
		name := ""
		if c := customersByID[p.CustomerID]; c != nil {
			name = c.Name
		}
		out = append(out, dto.ContractedTargetResponse{
			CustomerID:   p.CustomerID,
			CustomerName: name,
			PropertyID:   p.ID,
			Address:      p.Address,
			Group:        p.Group,
			Price:        contract.Price,
		})
	}
	for _, c := range customers {
		contract, ok := c.Contracts.ActiveContract(taskID)
		if !ok {
			continue
		}
		out = append(out, dto.ContractedTargetResponse{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Price:        contract.Price,
		})
	}
	return out, nil
}

func validCustomerType(t string) bool {
	switch t {
	case entity.CustomerTypePortfolio, entity.CustomerTypeBusiness, entity.CustomerTypePrivate:
		return true
	}
	return false
}

func contractMapFromDTO(in map[string]dto.ContractEntry) entity.ContractMap {
	if in == nil {
		return entity.ContractMap{}
	}
	out := make(entity.ContractMap, len(in))
	for taskID, c := range in {
		out[taskID] = entity.Contract{Active: c.Active, Price: c.Price}
	}
	return out
}

func contractMapToDTO(in entity.ContractMap) map[string]dto.ContractEntry {
	out := make(map[string]dto.ContractEntry, len(in))
	for taskID, c := range in {
		out[taskID] = dto.ContractEntry{Active: c.Active, Price: c.Price}
	}
	return out
}

func customerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Type:        c.Type,
		BusinessID:  c.BusinessID,
		Street:      c.Street,
		Zip:         c.Zip,
		City:        c.City,
		Phone:       c.Phone,
		Email:       c.Email,
		PaymentTerm: c.PaymentTerm,
		FixedDueDay: c.FixedDueDay,
		GroupNames:  c.GroupNames,
		Contracts:   contractMapToDTO(c.Contracts),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
