package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// WorkEntryFilter criterios de consulta del registro de trabajos. Los campos
// vacíos no filtran. Las fechas son YYYY-MM-DD inclusivas.
type WorkEntryFilter struct {
	CustomerID string
	PropertyID string
	TaskID     string
	FromDate   string
	ToDate     string
	Origin     string
	Invoiced   *bool // nil = ambos
	Limit      int
	Offset     int
}

// WorkEntryRepository define el puerto de persistencia para WorkEntry (DIP).
type WorkEntryRepository interface {
	Create(entry *entity.WorkEntry) error
	// CreateBatch inserta varios registros; dentro de una transacción cuando el
	// repositorio está ligado a una (aprobación de cuotas sintetizadas).
	CreateBatch(entries []*entity.WorkEntry) error
	GetByID(id string) (*entity.WorkEntry, error)
	List(filter WorkEntryFilter) ([]*entity.WorkEntry, error)
	ListByInvoice(invoiceID string) ([]*entity.WorkEntry, error)
	// MarkInvoiced marca los registros como facturados con la referencia dada.
	// Falla con ErrAlreadyInvoiced si algún registro ya pertenece a una factura:
	// un facturado solo cambia de estado por el rollback (ResetInvoiced).
	MarkInvoiced(ids []string, invoiceID string) error
	// ResetInvoiced devuelve los registros al pozo de no facturados (rollback).
	ResetInvoiced(ids []string) error
	Update(entry *entity.WorkEntry) error
	Delete(id string) error
	DeleteByIDs(ids []string) error
}
