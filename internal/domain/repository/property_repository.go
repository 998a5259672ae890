package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// PropertyRepository define el puerto de persistencia para Property (DIP).
type PropertyRepository interface {
	Create(property *entity.Property) error
	GetByID(id string) (*entity.Property, error)
	ListByCustomer(customerID string) ([]*entity.Property, error)
	ListAll() ([]*entity.Property, error)
	// ListWithActiveTask propiedades con contrato activo para la tarea dada
	// (listado de destinos contratados y síntesis de cuotas).
	ListWithActiveTask(taskID string) ([]*entity.Property, error)
	Update(property *entity.Property) error
	Delete(id string) error
}
