package voucher

import (
	"context"
	"time"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
)

// ListFilter filtros opcionales de GET /api/vouchers.
type ListFilter struct {
	Type    string
	PartyID string
	From    string // YYYY-MM-DD
	To      string // YYYY-MM-DD
	dto.PageRequest
}

// GetByID devuelve el comprobante con sus líneas. NotFound si no existe o es de otra empresa.
func (uc *VoucherUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.VoucherResponse, error) {
	v, err := uc.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil || v.CompanyID != companyID {
		return nil, domain.NotFound("comprobante")
	}
	lines, err := uc.voucherRepo.GetLines(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	p, err := uc.partyRepo.GetByID(ctx, v.PartyID)
	if err != nil {
		return nil, err
	}
	partyName := ""
	if p != nil {
		partyName = p.Name
	}
	return toVoucherResponse(v, partyName, lines), nil
}

// List lista comprobantes de la empresa, más recientes primero.
func (uc *VoucherUseCase) List(ctx context.Context, companyID string, f ListFilter) (*dto.VoucherListResponse, error) {
	f.DefaultPage()
	filter := repository.VoucherFilter{
		CompanyID: companyID,
		PartyID:   f.PartyID,
		Limit:     f.Limit,
		Offset:    f.Offset,
	}
	if f.Type != "" {
		typ, err := entity.ParseVoucherType(f.Type)
		if err != nil {
			return nil, domain.Validation(err.Error(), domain.FieldError{Field: "type", Message: "tipo desconocido"})
		}
		filter.Type = typ
	}
	var err error
	if filter.From, err = parseDateParam("from", f.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseDateParam("to", f.To); err != nil {
		return nil, err
	}

	list, err := uc.voucherRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VoucherResponse, 0, len(list))
	for i := range list {
		items = append(items, *toVoucherResponse(&list[i], "", nil))
	}
	return &dto.VoucherListResponse{
		Items: items,
		Page:  f.Response(len(items)),
	}, nil
}

func parseDateParam(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, domain.Validation("fecha inválida", domain.FieldError{Field: field, Message: "formato YYYY-MM-DD"})
	}
	return &t, nil
}

func toVoucherResponse(v *entity.Voucher, partyName string, lines []entity.VoucherLineItem) *dto.VoucherResponse {
	out := &dto.VoucherResponse{
		ID:            v.ID,
		CompanyID:     v.CompanyID,
		PartyID:       v.PartyID,
		PartyName:     partyName,
		Type:          string(v.Type),
		VoucherNumber: v.VoucherNumber,
		Date:          v.Date.Format("2006-01-02"),
		Amount:        v.Amount,
		Narration:     v.Narration,
		CreatedAt:     v.CreatedAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.VoucherLineResponse{
			ID:       l.ID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Rate:     l.Rate,
			Amount:   l.Amount,
		})
	}
	return out
}
