package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/jhoicas/ledgerbook-api/pkg/jwt"
	"github.com/jhoicas/ledgerbook-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de identidad: registro, login, sesión actual y logout.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	revoked     *RevocationList
	tokens      *jwt.Manager
	log         *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, revoked *RevocationList, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		revoked:     revoked,
		tokens:      jwt.NewManager(jwtCfg.Secret, jwtCfg.Issuer, time.Duration(jwtCfg.ExpMinutes)*time.Minute),
		log:         log.Component("auth"),
	}
}

// Register crea un usuario sin empresa: hashea el password con bcrypt y persiste.
// Un email ya registrado es ConstraintViolation.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	email := in.Email
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Constraint("el email ya está registrado")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.For(ctx).Info().Str("user_id", user.ID).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.Unauthorized("credenciales inválidas")
	}
	token, err := uc.IssueToken(user.ID, user.CompanyID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// IssueToken firma un JWT para el usuario; companyID vacío mientras no haya hecho el setup.
func (uc *AuthUseCase) IssueToken(userID, companyID string) (string, error) {
	return uc.tokens.Issue(userID, companyID)
}

// Tokens expone el manager para que el middleware HTTP valide con la misma configuración.
func (uc *AuthUseCase) Tokens() *jwt.Manager {
	return uc.tokens
}

// Session devuelve el usuario actual y su empresa (nil si aún no la creó).
func (uc *AuthUseCase) Session(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorized("usuario no encontrado")
	}
	out := &dto.SessionResponse{User: *toUserResponse(user)}
	company, err := uc.companyRepo.GetByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if company != nil {
		out.Company = ToCompanyResponse(company)
	}
	return out, nil
}

// Logout revoca el token (por jti) hasta su expiración.
func (uc *AuthUseCase) Logout(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	uc.revoked.Revoke(jti, expiresAt)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// ToCompanyResponse convierte la entidad a su DTO.
func ToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		MobileNumber: c.MobileNumber,
		Address:      c.Address,
		Email:        c.Email,
		CreatedAt:    c.CreatedAt,
	}
}

// normalizeEmail deja el email en minúsculas y sin espacios antes de validar.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
