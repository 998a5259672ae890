package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskDefinitionDTO definición de tarea en el perfil de la empresa.
type TaskDefinitionDTO struct {
	ID             string `json:"id"`
	Label          string `json:"label" validate:"required,min=1,max=100"`
	Type           string `json:"type" validate:"required,oneof=checkbox kg fixed fixed_monthly hourly extra material"`
	Color          string `json:"color"`
	ShowInWorkView bool   `json:"show_in_work_view"`
}

// UpdateCompanyProfileRequest campos opcionales para PUT /api/company.
type UpdateCompanyProfileRequest struct {
	Name       *string             `json:"name" validate:"omitempty,min=1,max=200"`
	BusinessID *string             `json:"business_id"`
	Address    *string             `json:"address"`
	Zip        *string             `json:"zip"`
	City       *string             `json:"city"`
	Phone      *string             `json:"phone"`
	Email      *string             `json:"email" validate:"omitempty,email"`
	IBAN       *string             `json:"iban"`
	BIC        *string             `json:"bic"`
	VATPercent *decimal.Decimal    `json:"vat_percent"`
	Tasks      []TaskDefinitionDTO `json:"tasks"`
}

// CompanyProfileResponse perfil del emisor.
type CompanyProfileResponse struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	BusinessID        string              `json:"business_id,omitempty"`
	Address           string              `json:"address,omitempty"`
	Zip               string              `json:"zip,omitempty"`
	City              string              `json:"city,omitempty"`
	Phone             string              `json:"phone,omitempty"`
	Email             string              `json:"email,omitempty"`
	IBAN              string              `json:"iban,omitempty"`
	BIC               string              `json:"bic,omitempty"`
	VATPercent        decimal.Decimal     `json:"vat_percent"`
	NextInvoiceNumber int                 `json:"next_invoice_number"`
	Tasks             []TaskDefinitionDTO `json:"tasks"`
	UpdatedAt         time.Time           `json:"updated_at"`
}
