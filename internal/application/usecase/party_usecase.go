package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// PartyUseCase CRUD de clientes y proveedores.
type PartyUseCase struct {
	repo        repository.PartyRepository
	voucherRepo repository.VoucherRepository
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(repo repository.PartyRepository, voucherRepo repository.VoucherRepository) *PartyUseCase {
	return &PartyUseCase{repo: repo, voucherRepo: voucherRepo}
}

// Create registra un tercero en la empresa.
func (uc *PartyUseCase) Create(ctx context.Context, companyID string, in dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := validateOpeningBalance(in.OpeningBalance); err != nil {
		return nil, err
	}
	role, err := entity.ParsePartyRole(in.Role)
	if err != nil {
		return nil, domain.Validation(err.Error(), domain.FieldError{Field: "role", Message: "debe ser uno de: customer supplier"})
	}
	now := time.Now()
	p := &entity.Party{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		Role:           role,
		Name:           strings.TrimSpace(in.Name),
		MobileNumber:   strings.TrimSpace(in.MobileNumber),
		Address:        strings.TrimSpace(in.Address),
		OpeningBalance: in.OpeningBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPartyResponse(p), nil
}

// GetByID obtiene un tercero de la empresa.
func (uc *PartyUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.PartyResponse, error) {
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toPartyResponse(p), nil
}

// List lista terceros con filtro opcional de rol.
func (uc *PartyUseCase) List(ctx context.Context, companyID, rawRole string, page dto.PageRequest) (*dto.PartyListResponse, error) {
	page.DefaultPage()
	var role entity.PartyRole
	if rawRole != "" {
		r, err := entity.ParsePartyRole(rawRole)
		if err != nil {
			return nil, domain.Validation(err.Error(), domain.FieldError{Field: "role", Message: "debe ser uno de: customer supplier"})
		}
		role = r
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, role, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartyResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartyResponse(p))
	}
	return &dto.PartyListResponse{
		Items: items,
		Page:  page.Response(len(items)),
	}, nil
}

// Update modifica los datos de contacto. El saldo inicial solo puede cambiar mientras
// ningún comprobante referencie al tercero.
func (uc *PartyUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdatePartyRequest) (*dto.PartyResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.OpeningBalance != nil {
		if err := validateOpeningBalance(*in.OpeningBalance); err != nil {
			return nil, err
		}
	}
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.OpeningBalance != nil && !in.OpeningBalance.Equal(p.OpeningBalance) {
		n, err := uc.voucherRepo.CountByParty(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, domain.Constraint("el saldo inicial no se puede modificar: el tercero tiene %d comprobantes", n)
		}
		p.OpeningBalance = *in.OpeningBalance
	}
	p.Name = strings.TrimSpace(in.Name)
	p.MobileNumber = strings.TrimSpace(in.MobileNumber)
	p.Address = strings.TrimSpace(in.Address)
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPartyResponse(p), nil
}

// Delete elimina un tercero sin comprobantes.
func (uc *PartyUseCase) Delete(ctx context.Context, companyID, id string) error {
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	n, err := uc.voucherRepo.CountByParty(ctx, p.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Constraint("el tercero tiene %d comprobantes y no se puede eliminar", n)
	}
	return uc.repo.Delete(ctx, p.ID)
}

func (uc *PartyUseCase) get(ctx context.Context, companyID, id string) (*entity.Party, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID {
		return nil, domain.NotFound("tercero")
	}
	return p, nil
}

func toPartyResponse(p *entity.Party) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:             p.ID,
		CompanyID:      p.CompanyID,
		Role:           string(p.Role),
		Name:           p.Name,
		MobileNumber:   p.MobileNumber,
		Address:        p.Address,
		OpeningBalance: p.OpeningBalance,
		CreatedAt:      p.CreatedAt,
	}
}

// El saldo inicial puede ser negativo (saldo a favor del tercero) pero se guarda en centavos.
func validateOpeningBalance(b decimal.Decimal) error {
	if !entity.FitsScale(b, entity.MoneyScale) {
		return domain.Validation("saldo inicial inválido", domain.FieldError{Field: "opening_balance", Message: "máximo 2 decimales"})
	}
	return nil
}
