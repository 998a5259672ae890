package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.WorkEntryRepository = (*WorkEntryRepo)(nil)

// WorkEntryRepo implementación de WorkEntryRepository (usable con pool o tx).
// La fecha se guarda como texto YYYY-MM-DD: las comparaciones de rango funcionan
// por orden lexicográfico y el dominio nunca maneja zonas horarias.
type WorkEntryRepo struct {
	q Querier
}

// NewWorkEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkEntryRepository(q Querier) *WorkEntryRepo {
	return &WorkEntryRepo{q: q}
}

const workEntryColumns = `id, task_id, task_name, task_type, customer_id, customer_name,
	property_id, property_address, group_name, cost_center, date, quantity,
	price_work, price_material, description, origin, invoiced, COALESCE(invoice_id, ''), created_at`

// Create persiste un registro de trabajo.
func (r *WorkEntryRepo) Create(entry *entity.WorkEntry) error {
	query := `
		INSERT INTO work_entries (id, task_id, task_name, task_type, customer_id, customer_name,
			property_id, property_address, group_name, cost_center, date, quantity,
			price_work, price_material, description, origin, invoiced, invoice_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.TaskID, entry.TaskName, entry.TaskType, entry.CustomerID, entry.CustomerName,
		entry.PropertyID, entry.PropertyAddress, entry.Group, entry.CostCenter, entry.Date, entry.Quantity,
		entry.PriceWork, entry.PriceMaterial, entry.Description, entry.Origin,
		entry.Invoiced, nullIfEmpty(entry.InvoiceID), entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert work entry: %w", err)
	}
	return nil
}

// CreateBatch inserta varios registros (cuotas sintetizadas al aprobar).
func (r *WorkEntryRepo) CreateBatch(entries []*entity.WorkEntry) error {
	for _, e := range entries {
		if err := r.Create(e); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene un registro por ID.
func (r *WorkEntryRepo) GetByID(id string) (*entity.WorkEntry, error) {
	query := `SELECT ` + workEntryColumns + ` FROM work_entries WHERE id = $1`
	e, err := scanWorkEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work entry: %w", err)
	}
	return e, nil
}

// List consulta el registro según el filtro. Los campos vacíos no filtran.
func (r *WorkEntryRepo) List(filter repository.WorkEntryFilter) ([]*entity.WorkEntry, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, cond+" $"+strconv.Itoa(len(args)))
	}
	if filter.CustomerID != "" {
		add("customer_id =", filter.CustomerID)
	}
	if filter.PropertyID != "" {
		add("property_id =", filter.PropertyID)
	}
	if filter.TaskID != "" {
		add("task_id =", filter.TaskID)
	}
	if filter.FromDate != "" {
		add("date >=", filter.FromDate)
	}
	if filter.ToDate != "" {
		add("date <=", filter.ToDate)
	}
	if filter.Origin != "" {
		add("origin =", filter.Origin)
	}
	if filter.Invoiced != nil {
		add("invoiced =", *filter.Invoiced)
	}

	query := `SELECT ` + workEntryColumns + ` FROM work_entries`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date, created_at`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}
	return r.queryMany(query, args...)
}

// ListByInvoice lista los registros facturados en la factura dada.
func (r *WorkEntryRepo) ListByInvoice(invoiceID string) ([]*entity.WorkEntry, error) {
	query := `SELECT ` + workEntryColumns + ` FROM work_entries WHERE invoice_id = $1 ORDER BY date, created_at`
	return r.queryMany(query, invoiceID)
}

// MarkInvoiced marca los registros como facturados con la referencia dada.
// Solo registros aún no facturados: si alguno ya pertenece a otra factura la
// operación falla entera, un borrador obsoleto no debe refacturar trabajos.
func (r *WorkEntryRepo) MarkInvoiced(ids []string, invoiceID string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE work_entries SET invoiced = TRUE, invoice_id = $2 WHERE id = ANY($1) AND invoiced = FALSE`
	tag, err := r.q.Exec(context.Background(), query, ids, invoiceID)
	if err != nil {
		return fmt.Errorf("mark invoiced: %w", err)
	}
	if int(tag.RowsAffected()) != len(ids) {
		return fmt.Errorf("%w: %d de %d registros ya facturados o inexistentes",
			domain.ErrAlreadyInvoiced, len(ids)-int(tag.RowsAffected()), len(ids))
	}
	return nil
}

// ResetInvoiced devuelve los registros al pozo de no facturados.
func (r *WorkEntryRepo) ResetInvoiced(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE work_entries SET invoiced = FALSE, invoice_id = NULL WHERE id = ANY($1)`
	_, err := r.q.Exec(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("reset invoiced: %w", err)
	}
	return nil
}

// Update actualiza un registro.
func (r *WorkEntryRepo) Update(entry *entity.WorkEntry) error {
	query := `
		UPDATE work_entries SET
			task_id = $2, task_name = $3, task_type = $4, customer_id = $5, customer_name = $6,
			property_id = $7, property_address = $8, group_name = $9, cost_center = $10,
			date = $11, quantity = $12, price_work = $13, price_material = $14,
			description = $15, origin = $16, invoiced = $17, invoice_id = $18
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.TaskID, entry.TaskName, entry.TaskType, entry.CustomerID, entry.CustomerName,
		entry.PropertyID, entry.PropertyAddress, entry.Group, entry.CostCenter,
		entry.Date, entry.Quantity, entry.PriceWork, entry.PriceMaterial,
		entry.Description, entry.Origin, entry.Invoiced, nullIfEmpty(entry.InvoiceID),
	)
	if err != nil {
		return fmt.Errorf("update work entry: %w", err)
	}
	return nil
}

// Delete elimina un registro por ID.
func (r *WorkEntryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM work_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete work entry: %w", err)
	}
	return nil
}

// DeleteByIDs elimina un lote de registros (rollback de cuotas sintetizadas).
func (r *WorkEntryRepo) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(context.Background(), `DELETE FROM work_entries WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete work entries: %w", err)
	}
	return nil
}

func (r *WorkEntryRepo) queryMany(query string, args ...any) ([]*entity.WorkEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkEntry
	for rows.Next() {
		e, err := scanWorkEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanWorkEntry(row pgx.Row) (*entity.WorkEntry, error) {
	var e entity.WorkEntry
	err := row.Scan(
		&e.ID, &e.TaskID, &e.TaskName, &e.TaskType, &e.CustomerID, &e.CustomerName,
		&e.PropertyID, &e.PropertyAddress, &e.Group, &e.CostCenter, &e.Date, &e.Quantity,
		&e.PriceWork, &e.PriceMaterial, &e.Description, &e.Origin, &e.Invoiced, &e.InvoiceID, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
