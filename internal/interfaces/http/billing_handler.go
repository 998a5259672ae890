package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

// BillingHandler maneja el ciclo mensual de facturación: generación de
// borradores, aprobación del lote y factura rápida.
type BillingHandler struct {
	aggregate *billing.AggregateUseCase
	lifecycle *billing.LifecycleUseCase
	quick     *billing.QuickInvoiceUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(
	aggregate *billing.AggregateUseCase,
	lifecycle *billing.LifecycleUseCase,
	quick *billing.QuickInvoiceUseCase,
) *BillingHandler {
	return &BillingHandler{aggregate: aggregate, lifecycle: lifecycle, quick: quick}
}

// GenerateDrafts POST /api/billing/drafts?month=YYYY-MM
// Agrega los trabajos sin facturar del mes más las cuotas de contrato
// sintetizadas. No persiste nada: los borradores viven solo en la respuesta.
func (h *BillingHandler) GenerateDrafts(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "month (YYYY-MM) es requerido"})
	}
	out, err := h.aggregate.GenerateDrafts(c.Context(), month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "mes inválido, formato YYYY-MM"})
		}
		if errors.Is(err, domain.ErrNothingToBill) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOTHING_TO_BILL", Message: "no hay nada que facturar ese mes"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Approve POST /api/billing/approve
// Convierte los borradores seleccionados en facturas numeradas. Todo el lote
// dentro de una transacción: numeración, facturas y marcado de registros.
func (h *BillingHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveInvoicesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoices, err := h.lifecycle.Approve(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invoice_date y al menos un borrador son requeridos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "perfil de empresa o cliente no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "aprobación sin borradores seleccionados"})
		}
		if errors.Is(err, domain.ErrAlreadyInvoiced) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_INVOICED", Message: "algún registro del borrador ya está facturado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(invoices)
}

// QuickInvoice POST /api/billing/quick-invoice
// Factura manual fuera del ciclo: cliente por nombre (se crea si no existe) y
// líneas a mano alzada.
func (h *BillingHandler) QuickInvoice(c *fiber.Ctx) error {
	var in dto.QuickInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.quick.Create(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_name, invoice_date y al menos una línea son requeridos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "perfil de empresa no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DueDatePreview GET /api/billing/due-date?invoice_date=&payment_term=&fixed_day=
// Calcula el vencimiento sin persistir nada (vista previa en la oficina).
func (h *BillingHandler) DueDatePreview(c *fiber.Ctx) error {
	invoiceDate := c.Query("invoice_date")
	paymentTerm := c.Query("payment_term")
	fixedDay, _ := strconv.Atoi(c.Query("fixed_day", "0"))
	if invoiceDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invoice_date (YYYY-MM-DD) es requerido"})
	}
	dueDate, err := domainbilling.DueDate(invoiceDate, paymentTerm, fixedDay)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha o condición de pago inválida"})
	}
	return c.JSON(dto.PaymentTermPreviewResponse{
		InvoiceDate: invoiceDate,
		PaymentTerm: paymentTerm,
		DueDate:     dueDate,
	})
}
