package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
// Contracts y group_names van como JSONB: el mapa de contratos es un documento
// que se lee y escribe entero, nunca se consulta fila a fila.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, name, type, business_id, street, zip, city, phone, email,
	payment_term, fixed_due_day, group_names, contracts, created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	groups, contracts, err := marshalCustomerDocs(customer)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.Type, customer.BusinessID,
		customer.Street, customer.Zip, customer.City, customer.Phone, customer.Email,
		customer.PaymentTerm, customer.FixedDueDay, groups, contracts,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.queryOne(query, id)
}

// GetByName busca por nombre exacto sin distinguir mayúsculas. Lo usa la
// factura rápida para decidir entre reutilizar y crear cliente.
func (r *CustomerRepo) GetByName(name string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE lower(name) = lower($1) LIMIT 1`
	return r.queryOne(query, name)
}

// List lista clientes ordenados por nombre. limit <= 0 devuelve todos.
func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	return r.queryMany(query, args...)
}

// ListByType lista clientes de un tipo (portfolio, business, private).
func (r *CustomerRepo) ListByType(customerType string) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE type = $1 ORDER BY name`
	return r.queryMany(query, customerType)
}

// Update actualiza un cliente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	groups, contracts, err := marshalCustomerDocs(customer)
	if err != nil {
		return err
	}
	query := `
		UPDATE customers SET
			name = $2, type = $3, business_id = $4, street = $5, zip = $6, city = $7,
			phone = $8, email = $9, payment_term = $10, fixed_due_day = $11,
			group_names = $12, contracts = $13, updated_at = $14
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.Type, customer.BusinessID,
		customer.Street, customer.Zip, customer.City, customer.Phone, customer.Email,
		customer.PaymentTerm, customer.FixedDueDay, groups, contracts, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) queryOne(query string, args ...any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepo) queryMany(query string, args ...any) ([]*entity.Customer, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var groups, contracts []byte
	err := row.Scan(
		&c.ID, &c.Name, &c.Type, &c.BusinessID, &c.Street, &c.Zip, &c.City, &c.Phone, &c.Email,
		&c.PaymentTerm, &c.FixedDueDay, &groups, &contracts, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(groups) > 0 {
		if err := json.Unmarshal(groups, &c.GroupNames); err != nil {
			return nil, fmt.Errorf("unmarshal group_names: %w", err)
		}
	}
	if len(contracts) > 0 {
		if err := json.Unmarshal(contracts, &c.Contracts); err != nil {
			return nil, fmt.Errorf("unmarshal contracts: %w", err)
		}
	}
	return &c, nil
}

func marshalCustomerDocs(c *entity.Customer) (groups, contracts []byte, err error) {
	if c.GroupNames == nil {
		c.GroupNames = []string{}
	}
	if c.Contracts == nil {
		c.Contracts = entity.ContractMap{}
	}
	groups, err = json.Marshal(c.GroupNames)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal group_names: %w", err)
	}
	contracts, err = json.Marshal(c.Contracts)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal contracts: %w", err)
	}
	return groups, contracts, nil
}
