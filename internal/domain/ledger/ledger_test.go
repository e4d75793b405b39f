package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/ledger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(n int) time.Time { return time.Date(2024, time.March, n, 0, 0, 0, 0, time.UTC) }

func voucher(id string, typ entity.VoucherType, amount string, date time.Time, seq int64) entity.Voucher {
	return entity.Voucher{ID: id, Type: typ, VoucherNumber: id, Amount: d(amount), Date: date, Seq: seq}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de dirección: todas las combinaciones (rol, tipo)
// ──────────────────────────────────────────────────────────────────────────────

func TestDirection_TablaCompleta(t *testing.T) {
	cases := []struct {
		role entity.PartyRole
		typ  entity.VoucherType
		ok   bool
		side ledger.Side
		sign int
	}{
		{entity.RoleCustomer, entity.VoucherSales, true, ledger.SideDebit, +1},
		{entity.RoleCustomer, entity.VoucherReceipt, true, ledger.SideCredit, -1},
		{entity.RoleCustomer, entity.VoucherPurchase, false, ledger.SideNone, 0},
		{entity.RoleCustomer, entity.VoucherPayment, false, ledger.SideNone, 0},
		{entity.RoleSupplier, entity.VoucherPurchase, true, ledger.SideCredit, +1},
		{entity.RoleSupplier, entity.VoucherPayment, true, ledger.SideDebit, -1},
		{entity.RoleSupplier, entity.VoucherSales, false, ledger.SideNone, 0},
		{entity.RoleSupplier, entity.VoucherReceipt, false, ledger.SideNone, 0},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+string(tc.typ), func(t *testing.T) {
			eff, ok := ledger.Direction(tc.role, tc.typ)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.side, eff.Side)
			assert.Equal(t, tc.sign, eff.Sign)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Proyección
// ──────────────────────────────────────────────────────────────────────────────

func TestProject_ClienteVentaYRecibo(t *testing.T) {
	vs := []entity.Voucher{
		voucher("SAL-0001", entity.VoucherSales, "50", day(1), 1),
		voucher("REC-0001", entity.VoucherReceipt, "30", day(2), 2),
	}

	p := ledger.Project(entity.RoleCustomer, d("100"), vs)

	require.Len(t, p.Entries, 2)
	assert.True(t, p.Entries[0].Debit.Equal(d("50")))
	assert.True(t, p.Entries[0].Credit.IsZero())
	assert.True(t, p.Entries[0].Opening.Equal(d("100")))
	assert.True(t, p.Entries[0].Balance.Equal(d("150")))
	assert.True(t, p.Entries[1].Debit.IsZero())
	assert.True(t, p.Entries[1].Credit.Equal(d("30")))
	assert.True(t, p.Entries[1].Opening.Equal(d("150")))
	assert.True(t, p.Entries[1].Balance.Equal(d("120")))
	assert.True(t, p.Closing.Equal(d("120")))
	assert.True(t, p.TotalDebit.Equal(d("50")))
	assert.True(t, p.TotalCredit.Equal(d("30")))
	assert.Empty(t, p.Inconsistencies)
}

func TestProject_ProveedorCompraYPago(t *testing.T) {
	vs := []entity.Voucher{
		voucher("PUR-0001", entity.VoucherPurchase, "80", day(1), 1),
		voucher("PAY-0001", entity.VoucherPayment, "50", day(3), 2),
	}

	p := ledger.Project(entity.RoleSupplier, d("200"), vs)

	require.Len(t, p.Entries, 2)
	assert.True(t, p.Entries[0].Credit.Equal(d("80")))
	assert.True(t, p.Entries[0].Balance.Equal(d("280")))
	assert.True(t, p.Entries[1].Debit.Equal(d("50")))
	assert.True(t, p.Entries[1].Balance.Equal(d("230")))
	assert.True(t, p.Closing.Equal(d("230")))
}

func TestProject_SinComprobantesDevuelveSaldoInicial(t *testing.T) {
	p := ledger.Project(entity.RoleCustomer, d("75.50"), nil)

	assert.Empty(t, p.Entries)
	assert.True(t, p.Closing.Equal(d("75.50")))
}

func TestProject_ComprobanteInconsistenteSeExcluye(t *testing.T) {
	vs := []entity.Voucher{
		voucher("SAL-0001", entity.VoucherSales, "50", day(1), 1),
		voucher("PUR-0001", entity.VoucherPurchase, "999", day(2), 2),
	}

	p := ledger.Project(entity.RoleCustomer, d("0"), vs)

	require.Len(t, p.Entries, 1)
	assert.True(t, p.Closing.Equal(d("50")))
	require.Len(t, p.Inconsistencies, 1)
	assert.Equal(t, "PUR-0001", p.Inconsistencies[0].VoucherNumber)
	assert.Equal(t, entity.RoleCustomer, p.Inconsistencies[0].Role)
}

func TestProject_Determinista(t *testing.T) {
	vs := []entity.Voucher{
		voucher("a", entity.VoucherSales, "10", day(1), 1),
		voucher("b", entity.VoucherReceipt, "4", day(1), 2),
		voucher("c", entity.VoucherSales, "7.25", day(5), 3),
	}

	first := ledger.Project(entity.RoleCustomer, d("1"), vs)
	second := ledger.Project(entity.RoleCustomer, d("1"), vs)

	assert.Equal(t, first, second)
}

func TestSortVouchers_FechaLuegoOrdenDeCreacion(t *testing.T) {
	vs := []entity.Voucher{
		voucher("c", entity.VoucherSales, "1", day(2), 1),
		voucher("b", entity.VoucherSales, "1", day(1), 3),
		voucher("a", entity.VoucherSales, "1", day(1), 2),
	}

	ledger.SortVouchers(vs)

	assert.Equal(t, "a", vs[0].ID)
	assert.Equal(t, "b", vs[1].ID)
	assert.Equal(t, "c", vs[2].ID)
}

func TestBalance_CoincideConProyeccion(t *testing.T) {
	vs := []entity.Voucher{
		voucher("a", entity.VoucherPurchase, "120", day(1), 1),
		voucher("b", entity.VoucherPayment, "20", day(2), 2),
		voucher("c", entity.VoucherSales, "5", day(3), 3),
	}

	assert.True(t, ledger.Balance(entity.RoleSupplier, d("10"), vs).Equal(ledger.Project(entity.RoleSupplier, d("10"), vs).Closing))
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard de saldo
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckPayment_ProveedorRechazaExceso(t *testing.T) {
	supplier := &entity.Party{ID: "s1", Name: "Acme", Role: entity.RoleSupplier, OpeningBalance: d("200")}

	err := ledger.CheckPayment(supplier, d("250"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	require.NoError(t, ledger.CheckPayment(supplier, d("150"), nil))
	paid := []entity.Voucher{voucher("PAY-0001", entity.VoucherPayment, "150", day(1), 1)}
	assert.True(t, ledger.Balance(entity.RoleSupplier, supplier.OpeningBalance, paid).Equal(d("50")))
}

func TestCheckPayment_PagoExactoDejaSaldoCero(t *testing.T) {
	supplier := &entity.Party{Role: entity.RoleSupplier, OpeningBalance: d("200")}

	assert.NoError(t, ledger.CheckPayment(supplier, d("200"), nil))
}

func TestCheckPayment_ClienteNoAplica(t *testing.T) {
	customer := &entity.Party{Role: entity.RoleCustomer, OpeningBalance: d("10")}

	assert.NoError(t, ledger.CheckPayment(customer, d("1000"), nil))
}

func TestGuard_RecibosSoloConOptIn(t *testing.T) {
	customer := &entity.Party{Role: entity.RoleCustomer, OpeningBalance: d("10")}

	assert.NoError(t, ledger.Guard{}.Check(customer, entity.VoucherReceipt, d("50"), nil))
	assert.False(t, ledger.Guard{}.Applies(entity.RoleCustomer, entity.VoucherReceipt))

	g := ledger.Guard{CustomerReceipts: true}
	assert.True(t, g.Applies(entity.RoleCustomer, entity.VoucherReceipt))
	assert.ErrorIs(t, g.Check(customer, entity.VoucherReceipt, d("50"), nil), domain.ErrConstraintViolation)
	assert.NoError(t, g.Check(customer, entity.VoucherSales, d("50"), nil))
}

func TestGuard_ConsideraComprobantesPrevios(t *testing.T) {
	supplier := &entity.Party{Role: entity.RoleSupplier, OpeningBalance: d("0")}
	history := []entity.Voucher{
		voucher("PUR-0001", entity.VoucherPurchase, "100", day(1), 1),
		voucher("PAY-0001", entity.VoucherPayment, "60", day(2), 2),
	}

	assert.NoError(t, ledger.Guard{}.Check(supplier, entity.VoucherPayment, d("40"), history))
	assert.Error(t, ledger.Guard{}.Check(supplier, entity.VoucherPayment, d("40.01"), history))
}
