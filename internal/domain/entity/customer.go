package entity

import "time"

// Tipos de cliente.
const (
	CustomerTypePortfolio = "portfolio" // administrador de inmuebles (isännöinti): factura por grupo y categoría
	CustomerTypeBusiness  = "business"  // empresa: una factura por cliente, precios netos (+ IVA)
	CustomerTypePrivate   = "private"   // particular: una factura por cliente, precios con IVA incluido
)

// Condiciones de pago.
const (
	PaymentTermNet7     = "7pv"   // neto 7 días
	PaymentTermNet14    = "14pv"  // neto 14 días (por defecto)
	PaymentTermNet30    = "30pv"  // neto 30 días
	PaymentTermFixedDay = "fixed" // día fijo del mes
)

// Customer representa un cliente facturable. Contracts es su tarifa por defecto;
// las propiedades del cliente pueden sobrescribirla tarea por tarea.
type Customer struct {
	ID          string
	Name        string
	Type        string
	BusinessID  string // Y-tunnus
	Street      string
	Zip         string
	City        string
	Phone       string
	Email       string
	PaymentTerm string      // ver constantes PaymentTerm*
	FixedDueDay int         // día del mes cuando PaymentTerm == fixed
	GroupNames  []string    // subgrupos de cartera (solo portfolio)
	Contracts   ContractMap // tarifa por defecto del cliente
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BillingAddress dirección de facturación en una línea ("calle, cp ciudad").
func (c *Customer) BillingAddress() string {
	if c.Street == "" && c.Zip == "" && c.City == "" {
		return ""
	}
	return c.Street + ", " + c.Zip + " " + c.City
}

// VATInclusive indica si el cliente maneja precios con IVA incluido (solo particulares).
func (c *Customer) VATInclusive() bool {
	return c.Type == CustomerTypePrivate
}
