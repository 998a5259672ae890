package billing_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Fakes en memoria de los puertos de persistencia. Guardan punteros tal cual:
// suficiente para ejercitar los casos de uso sin base de datos.

type fakeCompanyRepo struct {
	profile *entity.CompanyProfile
	next    int
}

func (f *fakeCompanyRepo) Get() (*entity.CompanyProfile, error) { return f.profile, nil }

func (f *fakeCompanyRepo) Update(p *entity.CompanyProfile) error {
	f.profile = p
	return nil
}

func (f *fakeCompanyRepo) AllocateInvoiceNumbers(count int) (int, error) {
	first := f.next
	f.next += count
	return first, nil
}

type fakeCustomerRepo struct {
	customers []*entity.Customer
}

func (f *fakeCustomerRepo) Create(c *entity.Customer) error {
	f.customers = append(f.customers, c)
	return nil
}

func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) GetByName(name string) (*entity.Customer, error) {
	for _, c := range f.customers {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	return f.customers, nil
}

func (f *fakeCustomerRepo) ListByType(customerType string) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range f.customers {
		if c.Type == customerType {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomerRepo) Update(c *entity.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(id string) error          { return nil }

type fakePropertyRepo struct {
	properties []*entity.Property
}

func (f *fakePropertyRepo) Create(p *entity.Property) error {
	f.properties = append(f.properties, p)
	return nil
}

func (f *fakePropertyRepo) GetByID(id string) (*entity.Property, error) {
	for _, p := range f.properties {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePropertyRepo) ListByCustomer(customerID string) ([]*entity.Property, error) {
	var out []*entity.Property
	for _, p := range f.properties {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) ListAll() ([]*entity.Property, error) { return f.properties, nil }

func (f *fakePropertyRepo) ListWithActiveTask(taskID string) ([]*entity.Property, error) {
	var out []*entity.Property
	for _, p := range f.properties {
		if _, ok := p.Contracts.ActiveContract(taskID); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) Update(p *entity.Property) error { return nil }
func (f *fakePropertyRepo) Delete(id string) error          { return nil }

type fakeEntryRepo struct {
	entries []*entity.WorkEntry
}

func (f *fakeEntryRepo) Create(e *entity.WorkEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeEntryRepo) CreateBatch(entries []*entity.WorkEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeEntryRepo) GetByID(id string) (*entity.WorkEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEntryRepo) List(filter repository.WorkEntryFilter) ([]*entity.WorkEntry, error) {
	var out []*entity.WorkEntry
	for _, e := range f.entries {
		if filter.CustomerID != "" && e.CustomerID != filter.CustomerID {
			continue
		}
		if filter.PropertyID != "" && e.PropertyID != filter.PropertyID {
			continue
		}
		if filter.TaskID != "" && e.TaskID != filter.TaskID {
			continue
		}
		if filter.FromDate != "" && e.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && e.Date > filter.ToDate {
			continue
		}
		if filter.Origin != "" && e.Origin != filter.Origin {
			continue
		}
		if filter.Invoiced != nil && e.Invoiced != *filter.Invoiced {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEntryRepo) ListByInvoice(invoiceID string) ([]*entity.WorkEntry, error) {
	var out []*entity.WorkEntry
	for _, e := range f.entries {
		if e.InvoiceID == invoiceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) MarkInvoiced(ids []string, invoiceID string) error {
	marked := 0
	for _, e := range f.entries {
		if contains(ids, e.ID) && !e.Invoiced {
			e.Invoiced = true
			e.InvoiceID = invoiceID
			marked++
		}
	}
	// Mismo contrato que el adaptador real: todo o error.
	if marked != len(ids) {
		return fmt.Errorf("%w: registros ya facturados o inexistentes", domain.ErrAlreadyInvoiced)
	}
	return nil
}

func (f *fakeEntryRepo) ResetInvoiced(ids []string) error {
	for _, e := range f.entries {
		if contains(ids, e.ID) {
			e.Invoiced = false
			e.InvoiceID = ""
		}
	}
	return nil
}

func (f *fakeEntryRepo) Update(e *entity.WorkEntry) error { return nil }

func (f *fakeEntryRepo) Delete(id string) error {
	return f.DeleteByIDs([]string{id})
}

func (f *fakeEntryRepo) DeleteByIDs(ids []string) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if !contains(ids, e.ID) {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

type fakeInvoiceRepo struct {
	invoices []*entity.Invoice
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) GetByNumber(number int) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.Number == number {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range f.invoices {
		if filter.CustomerID != "" && inv.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.DocType != "" && inv.DocType != filter.DocType {
			continue
		}
		if filter.FromDate != "" && inv.InvoiceDate < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && inv.InvoiceDate > filter.ToDate {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	for i, existing := range f.invoices {
		if existing.ID == inv.ID {
			f.invoices[i] = inv
			return nil
		}
	}
	return nil
}

func (f *fakeInvoiceRepo) Delete(id string) error {
	kept := f.invoices[:0]
	for _, inv := range f.invoices {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	f.invoices = kept
	return nil
}

// fakeTxRunner pasa los mismos fakes a la función: sin transacción real, los
// tests verifican efectos, no atomicidad.
type fakeTxRunner struct {
	company  *fakeCompanyRepo
	customer *fakeCustomerRepo
	entry    *fakeEntryRepo
	invoice  *fakeInvoiceRepo
}

var _ billing.BillingTxRunner = (*fakeTxRunner)(nil)

func (f *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	entryRepo repository.WorkEntryRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	return fn(f.company, f.customer, f.entry, f.invoice)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
