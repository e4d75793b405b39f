package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledgerbook-api/internal/application/auth"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
)

// TokenIssuer firma un token nuevo para el usuario (lo implementa auth.AuthUseCase).
type TokenIssuer interface {
	IssueToken(userID, companyID string) (string, error)
}

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo     repository.CompanyRepository
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, userRepo repository.UserRepository, tokens TokenIssuer) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, userRepo: userRepo, tokens: tokens}
}

// Setup crea la empresa del usuario (una por usuario) y devuelve un token que ya lleva company_id.
func (uc *CompanyUseCase) Setup(ctx context.Context, userID string, in dto.CreateCompanyRequest) (*dto.CompanySetupResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Constraint("el usuario ya tiene una empresa")
	}
	now := time.Now()
	company := &entity.Company{
		ID:           uuid.New().String(),
		OwnerUserID:  userID,
		Name:         strings.TrimSpace(in.Name),
		MobileNumber: strings.TrimSpace(in.MobileNumber),
		Address:      strings.TrimSpace(in.Address),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	if err := uc.userRepo.SetCompany(ctx, userID, company.ID); err != nil {
		return nil, err
	}
	token, err := uc.tokens.IssueToken(userID, company.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CompanySetupResponse{Company: *auth.ToCompanyResponse(company), Token: token}, nil
}

// Current obtiene la empresa del token. NotFound si el usuario aún no hizo el setup.
func (uc *CompanyUseCase) Current(ctx context.Context, companyID string) (*dto.CompanyResponse, error) {
	if companyID == "" {
		return nil, domain.NotFound("empresa")
	}
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NotFound("empresa")
	}
	return auth.ToCompanyResponse(company), nil
}
