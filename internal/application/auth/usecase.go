package auth

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/internal/validator"
	"github.com/jhoicas/facturacion-api/pkg/jwt"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de empresa, login y sesión.
type AuthUseCase struct {
	txRunner ports.TxRunner
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(txRunner ports.TxRunner, userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{txRunner: txRunner, userRepo: userRepo, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// RegisterBusiness crea la empresa en estado pendiente, su configuración de
// consecutivos y el usuario administrador en una sola transacción.
func (uc *AuthUseCase) RegisterBusiness(ctx context.Context, in dto.RegisterBusinessRequest) (*dto.RegisterBusinessResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash de contraseña")
	}

	now := time.Now()
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	business := &entity.Business{
		ID:        uuid.New().String(),
		Name:      in.BusinessName,
		TaxID:     in.TaxID,
		Email:     normalizeEmail(in.Email),
		Currency:  currency,
		Status:    entity.BusinessStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		BusinessID:   business.ID,
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.WithinTx(ctx, func(tx ports.TxRepos) error {
		if _, err := tx.Users.GetByEmail(ctx, user.Email); err == nil {
			return domain.ErrEmailAlreadyExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		if err := tx.Businesses.Create(ctx, business); err != nil {
			return errors.Wrap(err, "crear empresa")
		}
		if err := tx.Settings.Create(ctx, entity.NewBusinessSettings(business.ID, now)); err != nil {
			return errors.Wrap(err, "crear configuración")
		}
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("business_id", business.ID).Str("email", user.Email).Msg("empresa registrada, pendiente de aprobación")
	return &dto.RegisterBusinessResponse{
		Business: ToBusinessResponse(business),
		User:     ToUserResponse(user),
	}, nil
}

// Login verifica email/password y emite el JWT. Las credenciales inválidas y el
// usuario inexistente producen el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.BusinessID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      ToUserResponse(user),
	}, nil
}

// Me devuelve el usuario de la sesión.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	return &out, nil
}

// EnsureSuperAdmin crea el superadministrador si el email no existe. Es idempotente.
func (uc *AuthUseCase) EnsureSuperAdmin(ctx context.Context, email, password, name string) (created bool, err error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < 8 {
		return false, domain.NewValidationError("password", "email y contraseña (mínimo 8) son obligatorios")
	}
	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, errors.Wrap(err, "hash de contraseña")
	}
	now := time.Now()
	if name == "" {
		name = "Superadmin"
	}
	err = uc.userRepo.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleSuperAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}
	uc.log.Info().Str("email", email).Msg("superadmin creado")
	return true, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ToUserResponse convierte un usuario a DTO, sin el hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		BusinessID: u.BusinessID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
	}
}

// ToBusinessResponse convierte una empresa a DTO.
func ToBusinessResponse(b *entity.Business) dto.BusinessResponse {
	return dto.BusinessResponse{
		ID:        b.ID,
		Name:      b.Name,
		TaxID:     b.TaxID,
		Email:     b.Email,
		Currency:  b.Currency,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}
