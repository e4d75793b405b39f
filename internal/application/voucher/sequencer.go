package voucher

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/numbering"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
)

// allocateNumber asigna el siguiente número de (empresa, tipo) dentro de la tx de creación.
// LockSequence serializa a los escritores concurrentes del mismo tipo; como el número se
// persiste en la misma tx, una creación fallida no consume número.
func allocateNumber(ctx context.Context, repo repository.VoucherRepository, companyID string, typ entity.VoucherType) (string, error) {
	if err := repo.LockSequence(ctx, companyID, typ); err != nil {
		return "", err
	}
	last, err := repo.LastNumber(ctx, companyID, typ)
	if err != nil {
		return "", err
	}
	return numbering.Next(typ, last)
}

// NextNumber devuelve una vista previa del próximo número. No lo reserva: la creación puede
// terminar con otro número si otro usuario emite antes.
func (uc *VoucherUseCase) NextNumber(ctx context.Context, companyID, rawType string) (*dto.NextNumberResponse, error) {
	typ, err := entity.ParseVoucherType(rawType)
	if err != nil {
		return nil, domain.Validation(err.Error(), domain.FieldError{Field: "type", Message: "debe ser uno de: sales purchase receipt payment"})
	}
	last, err := uc.voucherRepo.LastNumber(ctx, companyID, typ)
	if err != nil {
		return nil, err
	}
	next, err := numbering.Next(typ, last)
	if err != nil {
		return nil, err
	}
	return &dto.NextNumberResponse{Type: string(typ), VoucherNumber: next}, nil
}
