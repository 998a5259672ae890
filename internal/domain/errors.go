package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrNotContracted      = errors.New("tarea sin contrato activo para el destino")
	ErrNothingToBill      = errors.New("sin registros facturables en el periodo")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrMissingField       = errors.New("falta un campo obligatorio")
	ErrAlreadyInvoiced    = errors.New("el registro ya fue facturado")
)
