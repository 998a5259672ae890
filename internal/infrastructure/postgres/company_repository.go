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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository (usable con pool o tx).
// Instalación de una sola empresa: la tabla company_profile tiene una fila.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Get devuelve el perfil del emisor. Las definiciones de tarea viajan como JSONB.
func (r *CompanyRepo) Get() (*entity.CompanyProfile, error) {
	query := `
		SELECT id, name, business_id, address, zip, city, phone, email, iban, bic,
		       vat_percent, next_invoice_number, tasks, updated_at
		FROM company_profile LIMIT 1`
	var p entity.CompanyProfile
	var tasks []byte
	err := r.q.QueryRow(context.Background(), query).Scan(
		&p.ID, &p.Name, &p.BusinessID, &p.Address, &p.Zip, &p.City, &p.Phone, &p.Email,
		&p.IBAN, &p.BIC, &p.VATPercent, &p.NextInvoiceNumber, &tasks, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company profile: %w", err)
	}
	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &p.Tasks); err != nil {
			return nil, fmt.Errorf("unmarshal tasks: %w", err)
		}
	}
	return &p, nil
}

// Update actualiza el perfil. El contador de numeración no se toca aquí: solo
// AllocateInvoiceNumbers lo avanza.
func (r *CompanyRepo) Update(profile *entity.CompanyProfile) error {
	tasks, err := json.Marshal(profile.Tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	query := `
		UPDATE company_profile SET
			name = $2, business_id = $3, address = $4, zip = $5, city = $6,
			phone = $7, email = $8, iban = $9, bic = $10, vat_percent = $11,
			tasks = $12, updated_at = $13
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		profile.ID, profile.Name, profile.BusinessID, profile.Address, profile.Zip, profile.City,
		profile.Phone, profile.Email, profile.IBAN, profile.BIC, profile.VATPercent,
		tasks, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company profile: %w", err)
	}
	return nil
}

// AllocateInvoiceNumbers reserva 'count' números consecutivos con bloqueo
// pesimista sobre la fila del perfil y devuelve el primero. Dos aprobaciones
// concurrentes serializan aquí y nunca repiten número.
func (r *CompanyRepo) AllocateInvoiceNumbers(count int) (int, error) {
	if count <= 0 {
		return 0, domain.ErrInvalidInput
	}
	ctx := context.Background()
	var first int
	err := r.q.QueryRow(ctx, `SELECT next_invoice_number FROM company_profile LIMIT 1 FOR UPDATE`).Scan(&first)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("lock invoice counter: %w", err)
	}
	_, err = r.q.Exec(ctx, `UPDATE company_profile SET next_invoice_number = next_invoice_number + $1`, count)
	if err != nil {
		return 0, fmt.Errorf("advance invoice counter: %w", err)
	}
	return first, nil
}
