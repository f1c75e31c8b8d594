package entity

import "time"

// Estados de aprobación de una empresa (tenant).
const (
	BusinessStatusPending   = "pending"
	BusinessStatusApproved  = "approved"
	BusinessStatusSuspended = "suspended"
)

// Business representa una organización/tenant del sistema.
// Solo las empresas aprobadas por el superadministrador operan facturas e inventario.
type Business struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	Phone     string
	Email     string
	Currency  string // ISO 4217, p.ej. USD
	Status    string // pending, approved, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsApproved indica si la empresa puede operar.
func (b *Business) IsApproved() bool {
	return b.Status == BusinessStatusApproved
}

// ValidBusinessStatus valida un estado recibido del exterior.
func ValidBusinessStatus(s string) bool {
	switch s {
	case BusinessStatusPending, BusinessStatusApproved, BusinessStatusSuspended:
		return true
	}
	return false
}
