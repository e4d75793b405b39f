package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/application/usecase"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newPartyUseCase() (*usecase.PartyUseCase, *memory.Store) {
	store := memory.New()
	return usecase.NewPartyUseCase(store.Parties(), store.Vouchers()), store
}

func TestPartyUseCase_CreateYList(t *testing.T) {
	uc, _ := newPartyUseCase()
	ctx := context.Background()

	c, err := uc.Create(ctx, "co", dto.CreatePartyRequest{Role: "customer", Name: "  Tienda Sol ", OpeningBalance: d("100")})
	require.NoError(t, err)
	assert.Equal(t, "Tienda Sol", c.Name)
	_, err = uc.Create(ctx, "co", dto.CreatePartyRequest{Role: "supplier", Name: "Mayorista"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "otra", dto.CreatePartyRequest{Role: "customer", Name: "Ajeno"})
	require.NoError(t, err)

	all, err := uc.List(ctx, "co", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	customers, err := uc.List(ctx, "co", "customer", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, customers.Items, 1)
	assert.Equal(t, c.ID, customers.Items[0].ID)

	_, err = uc.List(ctx, "co", "vendor", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPartyUseCase_CreateRolInvalido(t *testing.T) {
	uc, _ := newPartyUseCase()

	_, err := uc.Create(context.Background(), "co", dto.CreatePartyRequest{Role: "employee", Name: "X"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPartyUseCase_SaldoInicialEnCentavos(t *testing.T) {
	uc, _ := newPartyUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, "co", dto.CreatePartyRequest{Role: "supplier", Name: "X", OpeningBalance: d("100.004")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	p, err := uc.Create(ctx, "co", dto.CreatePartyRequest{Role: "supplier", Name: "X", OpeningBalance: d("100.00")})
	require.NoError(t, err)
	bad := d("0.001")
	_, err = uc.Update(ctx, "co", p.ID, dto.UpdatePartyRequest{Name: "X", OpeningBalance: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPartyUseCase_SaldoInicialInmutableConComprobantes(t *testing.T) {
	uc, store := newPartyUseCase()
	ctx := context.Background()
	p, err := uc.Create(ctx, "co", dto.CreatePartyRequest{Role: "supplier", Name: "Mayorista", OpeningBalance: d("200")})
	require.NoError(t, err)

	changed := d("300")
	updated, err := uc.Update(ctx, "co", p.ID, dto.UpdatePartyRequest{Name: "Mayorista SAS", OpeningBalance: &changed})
	require.NoError(t, err, "sin comprobantes el saldo inicial se puede cambiar")
	assert.True(t, updated.OpeningBalance.Equal(d("300")))

	require.NoError(t, store.Vouchers().Create(ctx, &entity.Voucher{
		ID: "v1", CompanyID: "co", PartyID: p.ID, Type: entity.VoucherPurchase, VoucherNumber: "PUR-0001",
		Amount: d("10"), Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	again := d("400")
	_, err = uc.Update(ctx, "co", p.ID, dto.UpdatePartyRequest{Name: "Mayorista SAS", OpeningBalance: &again})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	same := d("300")
	out, err := uc.Update(ctx, "co", p.ID, dto.UpdatePartyRequest{Name: "Otro nombre", OpeningBalance: &same})
	require.NoError(t, err, "reenviar el mismo saldo no es un cambio")
	assert.Equal(t, "Otro nombre", out.Name)
}

func TestPartyUseCase_DeleteConComprobantesSeRechaza(t *testing.T) {
	uc, store := newPartyUseCase()
	ctx := context.Background()
	used, err := uc.Create(ctx, "co", dto.CreatePartyRequest{Role: "customer", Name: "Usado"})
	require.NoError(t, err)
	free, err := uc.Create(ctx, "co", dto.CreatePartyRequest{Role: "customer", Name: "Libre"})
	require.NoError(t, err)
	require.NoError(t, store.Vouchers().Create(ctx, &entity.Voucher{
		ID: "v1", CompanyID: "co", PartyID: used.ID, Type: entity.VoucherSales, VoucherNumber: "SAL-0001",
		Amount: d("1"), Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	assert.ErrorIs(t, uc.Delete(ctx, "co", used.ID), domain.ErrConstraintViolation)
	require.NoError(t, uc.Delete(ctx, "co", free.ID))

	_, err = uc.GetByID(ctx, "co", free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPartyUseCase_OtraEmpresaEsNotFound(t *testing.T) {
	uc, _ := newPartyUseCase()
	p, err := uc.Create(context.Background(), "co", dto.CreatePartyRequest{Role: "customer", Name: "Tienda"})
	require.NoError(t, err)

	_, err = uc.GetByID(context.Background(), "otra", p.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
