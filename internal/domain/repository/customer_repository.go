package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer (DIP).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	// GetByName busca por nombre exacto (sin distinguir mayúsculas); lo usa la
	// factura rápida para decidir entre reutilizar y crear cliente.
	GetByName(name string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
	ListByType(customerType string) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
}
