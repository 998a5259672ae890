package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// InvoiceHandler maneja el archivo de facturas: consulta, transiciones de
// estado, nota de crédito, borrado permanente y descargas (PDF, Finvoice).
type InvoiceHandler struct {
	lifecycle *billing.LifecycleUseCase
	pdf       *billing.PDFUseCase
	finvoice  *billing.FinvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	lifecycle *billing.LifecycleUseCase,
	pdf *billing.PDFUseCase,
	finvoice *billing.FinvoiceUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{lifecycle: lifecycle, pdf: pdf, finvoice: finvoice}
}

// List GET /api/invoices?status=&customer_id=&doc_type=&from=&to=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.InvoiceFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	list, err := h.lifecycle.List(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.lifecycle.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(invoice)
}

// MarkSent POST /api/invoices/:id/send (open -> sent)
func (h *InvoiceHandler) MarkSent(c *fiber.Ctx) error {
	invoice, err := h.lifecycle.MarkSent(c.Context(), c.Params("id"))
	return h.respondTransition(c, invoice, err)
}

// MarkPaid POST /api/invoices/:id/pay (sent -> paid)
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	invoice, err := h.lifecycle.MarkPaid(c.Context(), c.Params("id"))
	return h.respondTransition(c, invoice, err)
}

// Cancel POST /api/invoices/:id/cancel (open -> cancelled, motivo obligatorio)
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.lifecycle.Cancel(c.Context(), c.Params("id"), in.Reason)
	if err != nil && errors.Is(err, domain.ErrMissingField) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es obligatorio al anular"})
	}
	return h.respondTransition(c, invoice, err)
}

// CreateCreditNote POST /api/invoices/:id/credit-note
// Solo contra facturas enviadas o pagadas; la nota nace pagada y la original
// queda acreditada.
func (h *InvoiceHandler) CreateCreditNote(c *fiber.Ctx) error {
	var in dto.CreditNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	note, err := h.lifecycle.CreateCreditNote(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "solo se acreditan facturas enviadas o pagadas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// UpdateRows PUT /api/invoices/:id/rows
// Edición de líneas de una factura abierta; el total se recalcula en el servidor.
func (h *InvoiceHandler) UpdateRows(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRowsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.lifecycle.UpdateRows(c.Context(), c.Params("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "al menos una línea es requerida"})
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "solo se editan facturas abiertas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(invoice)
}

// Delete DELETE /api/invoices/:id
// Borrado permanente: libera los registros de campo y elimina las cuotas
// materializadas. Irreversible.
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.DeletePermanently(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(pdfBytes)
}

// DownloadFinvoice GET /api/invoices/:id/finvoice
func (h *InvoiceHandler) DownloadFinvoice(c *fiber.Ctx) error {
	xmlBytes, filename, err := h.finvoice.ExportInvoice(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DRAFT_INVOICE", Message: "una factura sin numerar no se exporta"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(xmlBytes)
}

// respondTransition respuesta común de las transiciones de estado.
func (h *InvoiceHandler) respondTransition(c *fiber.Ctx, invoice *dto.InvoiceResponse, err error) error {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición de estado no permitida"})
		}
		if errors.Is(err, domain.ErrMissingField) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo obligatorio ausente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(invoice)
}
