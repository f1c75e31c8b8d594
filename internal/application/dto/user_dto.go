package dto

import "time"

// RegisterBusinessRequest body para POST /api/auth/register-business.
// Crea la empresa (pendiente de aprobación) y su usuario administrador.
type RegisterBusinessRequest struct {
	BusinessName string `json:"businessName" validate:"required,min=2,max=200"`
	TaxID        string `json:"taxId,omitempty" validate:"omitempty,max=30"`
	Currency     string `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
}

// CreateUserRequest body para POST /api/users (el admin agrega personal a su empresa).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId,omitempty"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT. El mismo token viaja en la cookie de sesión.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// RegisterBusinessResponse empresa creada y su administrador.
type RegisterBusinessResponse struct {
	Business BusinessResponse `json:"business"`
	User     UserResponse     `json:"user"`
}
