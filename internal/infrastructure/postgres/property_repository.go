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

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

// PropertyRepo implementación de PropertyRepository (usable con pool o tx).
type PropertyRepo struct {
	q Querier
}

// NewPropertyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPropertyRepository(q Querier) *PropertyRepo {
	return &PropertyRepo{q: q}
}

const propertyColumns = `id, customer_id, address, group_name, cost_center, contracts, created_at, updated_at`

// Create persiste una nueva propiedad.
func (r *PropertyRepo) Create(property *entity.Property) error {
	contracts, err := marshalContracts(property)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(context.Background(), query,
		property.ID, property.CustomerID, property.Address, property.Group,
		property.CostCenter, contracts, property.CreatedAt, property.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// GetByID obtiene una propiedad por ID.
func (r *PropertyRepo) GetByID(id string) (*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p, err := scanProperty(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// ListByCustomer lista las propiedades de un cliente.
func (r *PropertyRepo) ListByCustomer(customerID string) ([]*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE customer_id = $1 ORDER BY address`
	return r.queryMany(query, customerID)
}

// ListAll lista todas las propiedades (síntesis de cuotas mensuales).
func (r *PropertyRepo) ListAll() ([]*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY address`
	return r.queryMany(query)
}

// ListWithActiveTask propiedades cuyo mapa de contratos tiene la tarea activa.
// La condición se evalúa sobre el documento JSONB directamente en la consulta.
func (r *PropertyRepo) ListWithActiveTask(taskID string) ([]*entity.Property, error) {
	query := `
		SELECT ` + propertyColumns + ` FROM properties
		WHERE (contracts -> $1 ->> 'active')::boolean IS TRUE
		ORDER BY address`
	return r.queryMany(query, taskID)
}

// Update actualiza una propiedad.
func (r *PropertyRepo) Update(property *entity.Property) error {
	contracts, err := marshalContracts(property)
	if err != nil {
		return err
	}
	query := `
		UPDATE properties SET
			customer_id = $2, address = $3, group_name = $4, cost_center = $5,
			contracts = $6, updated_at = $7
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		property.ID, property.CustomerID, property.Address, property.Group,
		property.CostCenter, contracts, property.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	return nil
}

// Delete elimina una propiedad por ID.
func (r *PropertyRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return nil
}

func (r *PropertyRepo) queryMany(query string, args ...any) ([]*entity.Property, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()
	var list []*entity.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProperty(row pgx.Row) (*entity.Property, error) {
	var p entity.Property
	var contracts []byte
	err := row.Scan(
		&p.ID, &p.CustomerID, &p.Address, &p.Group, &p.CostCenter,
		&contracts, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(contracts) > 0 {
		if err := json.Unmarshal(contracts, &p.Contracts); err != nil {
			return nil, fmt.Errorf("unmarshal contracts: %w", err)
		}
	}
	return &p, nil
}

func marshalContracts(p *entity.Property) ([]byte, error) {
	if p.Contracts == nil {
		p.Contracts = entity.ContractMap{}
	}
	b, err := json.Marshal(p.Contracts)
	if err != nil {
		return nil, fmt.Errorf("marshal contracts: %w", err)
	}
	return b, nil
}
