package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema. BusinessID es vacío para el superadministrador.
type User struct {
	ID           string
	BusinessID   string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // superadmin, admin, staff
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
