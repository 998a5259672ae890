package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/worklog"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// WorkEntryHandler maneja el registro de trabajos (protegido, incluye rol field).
type WorkEntryHandler struct {
	uc          *worklog.UseCase
	maintenance *worklog.MaintenanceUseCase
}

// NewWorkEntryHandler construye el handler.
func NewWorkEntryHandler(uc *worklog.UseCase, maintenance *worklog.MaintenanceUseCase) *WorkEntryHandler {
	return &WorkEntryHandler{uc: uc, maintenance: maintenance}
}

// Create POST /api/work-entries
// El precio se resuelve con la jerarquía de contratos, nunca viaja en el body
// (salvo extras y materiales, que llevan importes libres).
func (h *WorkEntryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tarea, cliente o propiedad no encontrada"})
		}
		if errors.Is(err, domain.ErrNotContracted) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_CONTRACTED", Message: "la tarea no está contratada para este destino"})
		}
		if errors.Is(err, domain.ErrMissingField) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "falta el importe o la cantidad de la tarea"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// List GET /api/work-entries?customer_id=&from=&to=&invoiced=
func (h *WorkEntryHandler) List(c *fiber.Ctx) error {
	var in dto.WorkEntryFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	list, err := h.uc.List(in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetByID GET /api/work-entries/:id
func (h *WorkEntryHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.uc.Get(c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(entry)
}

// UpdateDescription PATCH /api/work-entries/:id
// Solo la descripción es editable después de crear; lo facturado no se toca.
func (h *WorkEntryHandler) UpdateDescription(c *fiber.Ctx) error {
	var in struct {
		Description string `json:"description"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.UpdateDescription(c.Params("id"), in.Description)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
		}
		if err == domain.ErrAlreadyInvoiced {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_INVOICED", Message: "el registro ya está facturado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(entry)
}

// Delete DELETE /api/work-entries/:id
func (h *WorkEntryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
		}
		if err == domain.ErrAlreadyInvoiced {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_INVOICED", Message: "el registro ya está facturado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CleanupGhosts POST /api/work-entries/cleanup-ghosts
// Borra registros sin facturar cuyo cliente ya no existe (solo admin).
func (h *WorkEntryHandler) CleanupGhosts(c *fiber.Ctx) error {
	deleted, err := h.maintenance.CleanupGhostEntries()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// ResetMonthlyFees POST /api/work-entries/reset-monthly-fees?month=YYYY-MM
// Borra cuotas mensuales del mes persistidas sin factura (solo admin).
func (h *WorkEntryHandler) ResetMonthlyFees(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "month (YYYY-MM) es requerido"})
	}
	deleted, err := h.maintenance.ResetMonthlyFees(month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "mes inválido, formato YYYY-MM"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
