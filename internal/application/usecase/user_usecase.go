package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/internal/validator"
)

// UserUseCase aplica reglas de negocio para el personal de una empresa.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create agrega un usuario (admin o staff) a la empresa. El email es único en el sistema.
func (uc *UserUseCase) Create(ctx context.Context, businessID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash de contraseña")
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		BusinessID:   businessID,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         in.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := auth.ToUserResponse(user)
	return &out, nil
}

// List lista los usuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, businessID string) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *entity.User, _ int) dto.UserResponse { return auth.ToUserResponse(u) }), nil
}
