package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleOffice = "office" // oficina: facturación y maestros
	RoleField  = "field"  // trabajador de campo: solo registro de trabajos
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, office, field
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
