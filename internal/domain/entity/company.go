package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyProfile representa el perfil del emisor (instalación de una sola empresa).
// Las definiciones de tarea viven embebidas aquí: son configuración, no datos
// transaccionales, y se leen juntas en cada vista de facturación.
type CompanyProfile struct {
	ID                string
	Name              string
	BusinessID        string // Y-tunnus
	Address           string
	Zip               string
	City              string
	Phone             string
	Email             string
	IBAN              string
	BIC               string
	VATPercent        decimal.Decimal // por defecto 25.5
	NextInvoiceNumber int             // contador consecutivo, se incrementa al aprobar
	Tasks             []TaskDefinition
	UpdatedAt         time.Time
}

// Task busca una definición de tarea por su ID.
func (p *CompanyProfile) Task(taskID string) (TaskDefinition, bool) {
	for _, t := range p.Tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return TaskDefinition{}, false
}
