package dto

import "time"

// BusinessResponse salida de una empresa.
type BusinessResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxId,omitempty"`
	Email     string    `json:"email,omitempty"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// BusinessListResponse listado paginado de empresas (superadmin).
type BusinessListResponse struct {
	Items []BusinessResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// UpdateBusinessStatusRequest body para PATCH /api/admin/businesses/:id/status.
type UpdateBusinessStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved suspended"`
}
