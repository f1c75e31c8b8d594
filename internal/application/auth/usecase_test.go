package auth

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/testutil"
	"github.com/jhoicas/facturacion-api/pkg/jwt"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

var jwtCfg = JWTConfig{Secret: "test-secret", ExpMinutes: 30, Issuer: "facturacion-api"}

func newAuth(s *testutil.Store) *AuthUseCase {
	return NewAuthUseCase(s, s.Repos().Users, jwtCfg, logger.Nop())
}

func registerReq() dto.RegisterBusinessRequest {
	return dto.RegisterBusinessRequest{
		BusinessName: "Panadería La Espiga",
		Name:         "Laura",
		Email:        "Laura@Espiga.com",
		Password:     "clave-segura",
	}
}

func TestRegisterBusiness_CreaEmpresaPendienteYAdmin(t *testing.T) {
	s := testutil.NewStore()
	uc := newAuth(s)

	out, err := uc.RegisterBusiness(context.Background(), registerReq())
	require.NoError(t, err)
	assert.Equal(t, entity.BusinessStatusPending, out.Business.Status)
	assert.Equal(t, "USD", out.Business.Currency)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
	assert.Equal(t, "laura@espiga.com", out.User.Email)
	assert.Equal(t, out.Business.ID, out.User.BusinessID)

	st := s.Settings(out.Business.ID)
	require.NotNil(t, st)
	assert.Equal(t, int64(1), st.NextInvoiceNumber)
}

func TestRegisterBusiness_EmailDuplicadoNoDejaEmpresa(t *testing.T) {
	s := testutil.NewStore()
	uc := newAuth(s)
	_, err := uc.RegisterBusiness(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = uc.RegisterBusiness(context.Background(), registerReq())
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))

	list, total, err := s.Repos().Businesses.List(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)
}

func TestRegisterBusiness_Validacion(t *testing.T) {
	uc := newAuth(testutil.NewStore())
	req := registerReq()
	req.Password = "corta"
	_, err := uc.RegisterBusiness(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestLogin(t *testing.T) {
	s := testutil.NewStore()
	uc := newAuth(s)
	reg, err := uc.RegisterBusiness(context.Background(), registerReq())
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "laura@espiga.com", Password: "clave-segura"})
	require.NoError(t, err)
	claims, err := jwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, reg.Business.ID, claims.BusinessID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "laura@espiga.com", Password: "incorrecta"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@espiga.com", Password: "clave-segura"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestEnsureSuperAdmin_Idempotente(t *testing.T) {
	s := testutil.NewStore()
	uc := newAuth(s)

	created, err := uc.EnsureSuperAdmin(context.Background(), "root@example.com", "super-clave", "")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureSuperAdmin(context.Background(), "ROOT@example.com", "otra-clave", "")
	require.NoError(t, err)
	assert.False(t, created)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "root@example.com", Password: "super-clave"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, out.User.Role)
	assert.Empty(t, out.User.BusinessID)
}
