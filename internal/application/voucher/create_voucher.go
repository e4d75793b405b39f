package voucher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Create valida y registra un comprobante en una sola transacción:
//  1. asigna el número (serializado por empresa y tipo)
//  2. aplica el guard de saldo si corresponde (con la fila del tercero bloqueada)
//  3. aplica las líneas al stock (con las filas de artículos bloqueadas)
//  4. persiste cabecera, líneas y stock
//
// Cualquier error deja el almacenamiento sin cambios.
func (uc *VoucherUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateVoucherRequest) (*dto.VoucherResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	typ, err := entity.ParseVoucherType(in.Type)
	if err != nil {
		return nil, domain.Validation(err.Error(), domain.FieldError{Field: "type", Message: "tipo desconocido"})
	}
	date := uc.today()
	if in.Date != "" {
		d, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.Validation("fecha inválida", domain.FieldError{Field: "date", Message: "formato YYYY-MM-DD"})
		}
		date = d
	}
	if in.Amount.IsNegative() {
		return nil, domain.Validation("el importe no puede ser negativo", domain.FieldError{Field: "amount", Message: "debe ser >= 0"})
	}
	if !entity.FitsScale(in.Amount, entity.MoneyScale) {
		return nil, domain.Validation("importe inválido", domain.FieldError{Field: "amount", Message: "máximo 2 decimales"})
	}
	if len(in.Lines) > 0 && !typ.MovesStock() {
		return nil, domain.Validation("solo ventas y compras admiten líneas de artículos", domain.FieldError{Field: "lines", Message: "no permitido para " + string(typ)})
	}

	party, err := uc.partyRepo.GetByID(ctx, in.PartyID)
	if err != nil {
		return nil, err
	}
	if party == nil || party.CompanyID != companyID {
		return nil, domain.NotFound("tercero")
	}
	if party.Role != typ.PartyRole() {
		return nil, domain.Validation("el tipo de comprobante no corresponde al rol del tercero",
			domain.FieldError{Field: "party_id", Message: "se esperaba un " + string(typ.PartyRole())})
	}

	voucherID := uuid.New().String()
	lines, err := uc.buildLines(ctx, companyID, voucherID, in.Lines)
	if err != nil {
		return nil, err
	}
	amount := in.Amount
	if len(lines) > 0 {
		total := entity.LineTotal(lines)
		switch {
		case !entity.FitsScale(total, entity.MoneyScale):
			return nil, domain.Validation("el total de las líneas no se expresa en centavos",
				domain.FieldError{Field: "lines", Message: "total " + total.String()})
		case amount.IsZero():
			amount = total
		case !amount.Equal(total):
			return nil, domain.Validation("el importe no coincide con la suma de las líneas",
				domain.FieldError{Field: "amount", Message: "debe ser " + total.StringFixed(2)})
		}
	}

	v := entity.Voucher{
		ID:        voucherID,
		CompanyID: companyID,
		UserID:    userID,
		PartyID:   party.ID,
		Type:      typ,
		Date:      date,
		Amount:    amount,
		Narration: in.Narration,
		CreatedAt: time.Now(),
	}

	err = uc.tx.Run(ctx, func(partyRepo repository.PartyRepository, itemRepo repository.ItemRepository, voucherRepo repository.VoucherRepository) error {
		number, err := allocateNumber(ctx, voucherRepo, companyID, typ)
		if err != nil {
			return err
		}
		v.VoucherNumber = number

		if uc.guard.Applies(party.Role, typ) {
			locked, err := partyRepo.GetForUpdate(ctx, party.ID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.NotFound("tercero")
			}
			history, err := voucherRepo.List(ctx, repository.VoucherFilter{CompanyID: companyID, PartyID: party.ID, Ascending: true})
			if err != nil {
				return err
			}
			if err := uc.guard.Check(locked, typ, amount, history); err != nil {
				return err
			}
		}

		updated, err := uc.applyStock(ctx, itemRepo, typ, lines)
		if err != nil {
			return err
		}

		if err := voucherRepo.Create(ctx, &v); err != nil {
			return err
		}
		for i := range lines {
			if err := voucherRepo.CreateLine(ctx, &lines[i]); err != nil {
				return err
			}
		}
		for _, id := range sortedKeys(updated) {
			if err := itemRepo.SetStock(ctx, id, updated[id]); err != nil {
				return err
			}
		}
		return nil
	})
	log := uc.log.For(ctx)
	if err != nil {
		ev := log.Warn()
		if !errors.Is(err, domain.ErrConstraintViolation) {
			ev = log.Error()
		}
		ev.Err(err).Str("company_id", companyID).Str("type", string(typ)).Str("party_id", party.ID).
			Msg("comprobante rechazado")
		return nil, err
	}

	log.Info().
		Str("company_id", companyID).
		Str("voucher_number", v.VoucherNumber).
		Str("amount", v.Amount.StringFixed(2)).
		Int("lines", len(lines)).
		Msg("comprobante registrado")
	return toVoucherResponse(&v, party.Name, lines), nil
}

// buildLines valida las líneas contra los artículos de la empresa y calcula sus importes.
// Una tarifa en cero toma la tarifa del artículo.
func (uc *VoucherUseCase) buildLines(ctx context.Context, companyID, voucherID string, in []dto.VoucherLineRequest) ([]entity.VoucherLineItem, error) {
	lines := make([]entity.VoucherLineItem, 0, len(in))
	for i, l := range in {
		if !l.Quantity.IsPositive() {
			return nil, domain.Validation("cantidad inválida", domain.FieldError{Field: lineField(i, "quantity"), Message: "debe ser > 0"})
		}
		if !entity.FitsScale(l.Quantity, entity.QuantityScale) {
			return nil, domain.Validation("cantidad inválida", domain.FieldError{Field: lineField(i, "quantity"), Message: "máximo 4 decimales"})
		}
		if l.Rate.IsNegative() {
			return nil, domain.Validation("tarifa inválida", domain.FieldError{Field: lineField(i, "rate"), Message: "debe ser >= 0"})
		}
		if !entity.FitsScale(l.Rate, entity.MoneyScale) {
			return nil, domain.Validation("tarifa inválida", domain.FieldError{Field: lineField(i, "rate"), Message: "máximo 2 decimales"})
		}
		item, err := uc.itemRepo.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.CompanyID != companyID {
			return nil, domain.NotFound("artículo")
		}
		rate := l.Rate
		if rate.IsZero() {
			rate = item.Rate
		}
		lines = append(lines, entity.VoucherLineItem{
			ID:        uuid.New().String(),
			VoucherID: voucherID,
			ItemID:    item.ID,
			Quantity:  l.Quantity,
			Rate:      rate,
			Amount:    l.Quantity.Mul(rate),
		})
	}
	return lines, nil
}

// applyStock bloquea los artículos en orden de ID (evita deadlocks entre ventas concurrentes)
// y calcula el stock resultante.
func (uc *VoucherUseCase) applyStock(ctx context.Context, itemRepo repository.ItemRepository, typ entity.VoucherType, lines []entity.VoucherLineItem) (map[string]decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	current := make(map[string]decimal.Decimal)
	for _, l := range lines {
		current[l.ItemID] = decimal.Zero
	}
	for _, id := range sortedKeys(current) {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.NotFound("artículo")
		}
		current[id] = item.CurrentStock
	}
	return uc.policy.ApplyLineItems(typ, current, lines)
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lineField(i int, name string) string {
	return fmt.Sprintf("lines[%d].%s", i, name)
}
