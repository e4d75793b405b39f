package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledgerbook-api/internal/application/auth"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/infrastructure/memory"
)

const secret = "test-secret-key-for-unit-tests"

func newAuth() (*auth.AuthUseCase, *memory.Store, *auth.RevocationList) {
	store := memory.New()
	revoked := auth.NewRevocationList()
	uc := auth.NewAuthUseCase(store.Users(), store.Companies(), revoked,
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "ledgerbook-test"}, nil)
	return uc, store, revoked
}

func TestRegisterYLogin(t *testing.T) {
	uc, _, _ := newAuth()
	ctx := context.Background()

	user, err := uc.Register(ctx, dto.RegisterRequest{Email: " Ana@Example.com ", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "ana@example.com", user.Name, "sin nombre se usa el email")

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "secreta123"})
	require.NoError(t, err)
	claims, err := uc.Tokens().Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Empty(t, claims.CompanyID)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "  ana@EXAMPLE.com\t", Password: "secreta123"})
	require.NoError(t, err, "el login normaliza el email antes de validar")
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _, _ := newAuth()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ana@example.com", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "ANA@example.com", Password: "otraclave1"})

	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
}

func TestRegister_PasswordCorto(t *testing.T) {
	uc, _, _ := newAuth()

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ana@example.com", Password: "corta"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _, _ := newAuth()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ana@example.com", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSession_IncluyeEmpresa(t *testing.T) {
	uc, store, _ := newAuth()
	ctx := context.Background()
	user, err := uc.Register(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "secreta123", Name: "Ana"})
	require.NoError(t, err)

	s, err := uc.Session(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, s.Company)

	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: "co", OwnerUserID: user.ID, Name: "Ferretería"}))
	s, err = uc.Session(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, s.Company)
	assert.Equal(t, "Ferretería", s.Company.Name)

	_, err = uc.Session(ctx, "desconocido")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout_RevocaHastaExpirar(t *testing.T) {
	uc, _, revoked := newAuth()

	uc.Logout("jti-1", time.Now().Add(time.Hour))
	uc.Logout("jti-viejo", time.Now().Add(-time.Minute))
	uc.Logout("", time.Now().Add(time.Hour))

	assert.True(t, revoked.IsRevoked("jti-1"))
	assert.False(t, revoked.IsRevoked("jti-viejo"), "un token ya expirado no necesita revocación")
	assert.False(t, revoked.IsRevoked("otro"))
}
