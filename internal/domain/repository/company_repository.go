package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para el perfil del emisor
// (instalación de una sola empresa: existe exactamente una fila).
type CompanyRepository interface {
	Get() (*entity.CompanyProfile, error)
	Update(profile *entity.CompanyProfile) error
	// AllocateInvoiceNumbers reserva 'count' números consecutivos y avanza el
	// contador, devolviendo el primero. Debe ejecutarse dentro de la misma
	// transacción que persiste las facturas (bloqueo pesimista sobre la fila
	// del perfil) para que dos aprobaciones concurrentes nunca repitan número.
	AllocateInvoiceNumbers(count int) (first int, err error)
}
