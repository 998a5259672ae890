package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Las líneas y la copia del cliente viajan como JSONB: una factura se lee y se
// escribe siempre como documento completo, igual que en el modelo original.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, doc_type, number, customer_id, customer_snapshot, group_name, category,
	status, invoice_date, due_date, payment_term, cancel_reason, reference, barcode,
	line_items, total, vat_percent, COALESCE(original_id, ''), COALESCE(credit_note_id, ''),
	created_at, updated_at`

// Create persiste una factura o nota de crédito.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	snapshot, rowsDoc, err := marshalInvoiceDocs(invoice)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (id, doc_type, number, customer_id, customer_snapshot, group_name, category,
			status, invoice_date, due_date, payment_term, cancel_reason, reference, barcode,
			line_items, total, vat_percent, original_id, credit_note_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err = r.q.Exec(context.Background(), query,
		invoice.ID, invoice.DocType, invoice.Number, invoice.CustomerID, snapshot,
		invoice.Group, invoice.Category, invoice.Status, invoice.InvoiceDate, invoice.DueDate,
		invoice.PaymentTerm, invoice.CancelReason, invoice.Reference, invoice.Barcode,
		rowsDoc, invoice.Total, invoice.VATPercent,
		nullIfEmpty(invoice.OriginalID), nullIfEmpty(invoice.CreditNoteID),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.queryOne(query, id)
}

// GetByNumber obtiene una factura por su número consecutivo.
func (r *InvoiceRepo) GetByNumber(number int) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE number = $1`
	return r.queryOne(query, number)
}

// List consulta el archivo según el filtro, de la más reciente a la más antigua.
func (r *InvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, cond+" $"+strconv.Itoa(len(args)))
	}
	if filter.CustomerID != "" {
		add("customer_id =", filter.CustomerID)
	}
	if filter.Status != "" {
		add("status =", filter.Status)
	}
	if filter.DocType != "" {
		add("doc_type =", filter.DocType)
	}
	if filter.FromDate != "" {
		add("invoice_date >=", filter.FromDate)
	}
	if filter.ToDate != "" {
		add("invoice_date <=", filter.ToDate)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY number DESC, created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Update reescribe la factura completa (documento).
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	snapshot, rowsDoc, err := marshalInvoiceDocs(invoice)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices SET
			doc_type = $2, number = $3, customer_id = $4, customer_snapshot = $5,
			group_name = $6, category = $7, status = $8, invoice_date = $9, due_date = $10,
			payment_term = $11, cancel_reason = $12, reference = $13, barcode = $14,
			line_items = $15, total = $16, vat_percent = $17, original_id = $18, credit_note_id = $19,
			updated_at = $20
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		invoice.ID, invoice.DocType, invoice.Number, invoice.CustomerID, snapshot,
		invoice.Group, invoice.Category, invoice.Status, invoice.InvoiceDate, invoice.DueDate,
		invoice.PaymentTerm, invoice.CancelReason, invoice.Reference, invoice.Barcode,
		rowsDoc, invoice.Total, invoice.VATPercent,
		nullIfEmpty(invoice.OriginalID), nullIfEmpty(invoice.CreditNoteID),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Delete elimina una factura por ID (borrado permanente).
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) queryOne(query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var snapshot, rowsDoc []byte
	err := row.Scan(
		&inv.ID, &inv.DocType, &inv.Number, &inv.CustomerID, &snapshot, &inv.Group, &inv.Category,
		&inv.Status, &inv.InvoiceDate, &inv.DueDate, &inv.PaymentTerm, &inv.CancelReason,
		&inv.Reference, &inv.Barcode, &rowsDoc, &inv.Total, &inv.VATPercent,
		&inv.OriginalID, &inv.CreditNoteID, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &inv.Customer); err != nil {
			return nil, fmt.Errorf("unmarshal customer snapshot: %w", err)
		}
	}
	if len(rowsDoc) > 0 {
		if err := json.Unmarshal(rowsDoc, &inv.Rows); err != nil {
			return nil, fmt.Errorf("unmarshal invoice rows: %w", err)
		}
	}
	return &inv, nil
}

func marshalInvoiceDocs(inv *entity.Invoice) (snapshot, rowsDoc []byte, err error) {
	snapshot, err = json.Marshal(inv.Customer)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal customer snapshot: %w", err)
	}
	if inv.Rows == nil {
		inv.Rows = []entity.InvoiceRow{}
	}
	rowsDoc, err = json.Marshal(inv.Rows)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal invoice rows: %w", err)
	}
	return snapshot, rowsDoc, nil
}
