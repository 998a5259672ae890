package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// InvoiceFilter criterios de consulta del archivo de facturas.
type InvoiceFilter struct {
	CustomerID string
	Status     string
	DocType    string
	FromDate   string // fecha de emisión YYYY-MM-DD
	ToDate     string
	Limit      int
	Offset     int
}

// InvoiceRepository define el puerto de persistencia para Invoice (DIP).
// Las líneas viajan embebidas en la factura (JSONB), no como tabla aparte.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetByNumber(number int) (*entity.Invoice, error)
	List(filter InvoiceFilter) ([]*entity.Invoice, error)
	Update(invoice *entity.Invoice) error
	Delete(id string) error
}
