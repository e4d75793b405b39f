package voucher_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/application/voucher"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/jhoicas/ledgerbook-api/internal/domain/stock"
	"github.com/jhoicas/ledgerbook-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "company-1"
	testUserID    = "user-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store *memory.Store
	uc    *voucher.VoucherUseCase
}

func newFixture(t *testing.T, opts voucher.Options) *fixture {
	t.Helper()
	store := memory.New()
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	}
	uc := voucher.NewVoucherUseCase(store, store.Parties(), store.Items(), store.Vouchers(), opts, nil)
	return &fixture{store: store, uc: uc}
}

func (f *fixture) party(t *testing.T, role entity.PartyRole, opening string) *entity.Party {
	t.Helper()
	p := &entity.Party{
		ID:             uuid.New().String(),
		CompanyID:      testCompanyID,
		Role:           role,
		Name:           "Tercero " + string(role),
		OpeningBalance: d(opening),
	}
	require.NoError(t, f.store.Parties().Create(context.Background(), p))
	return p
}

func (f *fixture) item(t *testing.T, id, opening, reorder string) {
	t.Helper()
	require.NoError(t, f.store.Items().Create(context.Background(), &entity.Item{
		ID:           id,
		CompanyID:    testCompanyID,
		Name:         "Artículo " + id,
		Unit:         "und",
		Rate:         d("10"),
		OpeningStock: d(opening),
		CurrentStock: d(opening),
		ReorderLevel: d(reorder),
	}))
}

func (f *fixture) create(t *testing.T, in dto.CreateVoucherRequest) (*dto.VoucherResponse, error) {
	t.Helper()
	return f.uc.Create(context.Background(), testCompanyID, testUserID, in)
}

func (f *fixture) stockOf(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.CurrentStock
}

func (f *fixture) vouchers(t *testing.T) []entity.Voucher {
	t.Helper()
	list, err := f.store.Vouchers().List(context.Background(), repository.VoucherFilter{CompanyID: testCompanyID, Ascending: true})
	require.NoError(t, err)
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_PrimerComprobanteEs0001(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	customer := f.party(t, entity.RoleCustomer, "0")

	out, err := f.create(t, dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("10")})

	require.NoError(t, err)
	assert.Equal(t, "SAL-0001", out.VoucherNumber)
	assert.Equal(t, "2024-03-15", out.Date, "sin fecha se usa hoy")
}

func TestCreate_ContinuaDesdeElUltimoNumero(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	customer := f.party(t, entity.RoleCustomer, "0")
	require.NoError(t, f.store.Vouchers().Create(context.Background(), &entity.Voucher{
		ID: "legacy", CompanyID: testCompanyID, PartyID: customer.ID, Type: entity.VoucherSales,
		VoucherNumber: "SAL-0007", Amount: d("1"), Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	next, err := f.uc.NextNumber(context.Background(), testCompanyID, "sales")
	require.NoError(t, err)
	assert.Equal(t, "SAL-0008", next.VoucherNumber)

	out, err := f.create(t, dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("10")})
	require.NoError(t, err)
	assert.Equal(t, "SAL-0008", out.VoucherNumber)
}

func TestCreate_NumeracionIndependientePorTipo(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	customer := f.party(t, entity.RoleCustomer, "100")

	sal, err := f.create(t, dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("10")})
	require.NoError(t, err)
	rec, err := f.create(t, dto.CreateVoucherRequest{Type: "receipt", PartyID: customer.ID, Amount: d("5")})
	require.NoError(t, err)

	assert.Equal(t, "SAL-0001", sal.VoucherNumber)
	assert.Equal(t, "REC-0001", rec.VoucherNumber)
}

func TestCreate_UltimoNumeroCorruptoEsConstraintViolation(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	customer := f.party(t, entity.RoleCustomer, "0")
	require.NoError(t, f.store.Vouchers().Create(context.Background(), &entity.Voucher{
		ID: "bad", CompanyID: testCompanyID, PartyID: customer.ID, Type: entity.VoucherSales,
		VoucherNumber: "SALES-7", Amount: d("1"), Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	_, err := f.create(t, dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("10")})

	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	assert.Len(t, f.vouchers(t), 1)
}

func TestCreate_ConcurrenteSinDuplicadosNiHuecos(t *testing.T) {
	const n = 40
	f := newFixture(t, voucher.Options{})
	customer := f.party(t, entity.RoleCustomer, "0")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []string
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := f.uc.Create(context.Background(), testCompanyID, testUserID,
				dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("1")})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, out.VoucherNumber)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, numbers, n)
	sort.Strings(numbers)
	for i, num := range numbers {
		assert.Equal(t, fmt.Sprintf("SAL-%04d", i+1), num)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard de saldo
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_PagoMayorAlSaldoSeRechazaSinEscrituras(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	supplier := f.party(t, entity.RoleSupplier, "200")

	_, err := f.create(t, dto.CreateVoucherRequest{Type: "payment", PartyID: supplier.ID, Amount: d("250")})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	assert.Empty(t, f.vouchers(t), "no debe quedar ningún comprobante")
	next, err := f.uc.NextNumber(context.Background(), testCompanyID, "payment")
	require.NoError(t, err)
	assert.Equal(t, "PAY-0001", next.VoucherNumber, "el número no se consume")

	out, err := f.create(t, dto.CreateVoucherRequest{Type: "payment", PartyID: supplier.ID, Amount: d("150")})
	require.NoError(t, err)
	assert.Equal(t, "PAY-0001", out.VoucherNumber)
	assert.True(t, ledger.Balance(entity.RoleSupplier, supplier.OpeningBalance, f.vouchers(t)).Equal(d("50")))
}

func TestCreate_PagoConFraccionDeCentavoEsValidacion(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	supplier := f.party(t, entity.RoleSupplier, "100")

	_, err := f.create(t, dto.CreateVoucherRequest{Type: "payment", PartyID: supplier.ID, Amount: d("100.004")})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrConstraintViolation)
	assert.Empty(t, f.vouchers(t))
}

func TestCreate_PagosConcurrentesNoDejanSaldoNegativo(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	supplier := f.party(t, entity.RoleSupplier, "100")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Create(context.Background(), testCompanyID, testUserID,
				dto.CreateVoucherRequest{Type: "payment", PartyID: supplier.ID, Amount: d("30")})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, accepted)
	balance := ledger.Balance(entity.RoleSupplier, supplier.OpeningBalance, f.vouchers(t))
	assert.True(t, balance.Equal(d("10")), balance.String())
}

func TestCreate_ReciboDeClienteSoloConGuardActivado(t *testing.T) {
	off := newFixture(t, voucher.Options{})
	c1 := off.party(t, entity.RoleCustomer, "10")
	_, err := off.create(t, dto.CreateVoucherRequest{Type: "receipt", PartyID: c1.ID, Amount: d("50")})
	assert.NoError(t, err, "sin guard el recibo puede dejar saldo negativo")

	on := newFixture(t, voucher.Options{Guard: ledger.Guard{CustomerReceipts: true}})
	c2 := on.party(t, entity.RoleCustomer, "10")
	_, err = on.create(t, dto.CreateVoucherRequest{Type: "receipt", PartyID: c2.ID, Amount: d("50")})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_LineasActualizanStock(t *testing.T) {
	f := newFixture(t, voucher.Options{Stock: stock.Policy{AllowNegative: true}})
	customer := f.party(t, entity.RoleCustomer, "0")
	supplier := f.party(t, entity.RoleSupplier, "0")
	f.item(t, "item-1", "100", "20")

	_, err := f.create(t, dto.CreateVoucherRequest{Type: "purchase", PartyID: supplier.ID,
		Lines: []dto.VoucherLineRequest{{ItemID: "item-1", Quantity: d("30")}}})
	require.NoError(t, err)
	_, err = f.create(t, dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID,
		Lines: []dto.VoucherLineRequest{{ItemID: "item-1", Quantity: d("50")}}})
	require.NoError(t, err)
	assert.True(t, f.stockOf(t, "item-1").Equal(d("80")))

	out, err := f.create(t, dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID,
		Lines: []dto.VoucherLineRequest{{ItemID: "item-1", Quantity: d("65"), Rate: d("12")}}})
	require.NoError(t, err)
	assert.True(t, f.stockOf(t, "item-1").Equal(d("15")))
	assert.True(t, out.Amount.Equal(d("780")), "importe = suma de líneas")
	require.Len(t, out.Lines, 1)

	it, err := f.store.Items().GetByID(context.Background(), "item-1")
	require.NoError(t, err)
	assert.True(t, stock.IsLowStock(it))
}

func TestCreate_SobreventaRechazadaNoDejaEfectos(t *testing.T) {
	f := newFixture(t, voucher.Options{Stock: stock.Policy{AllowNegative: false}})
	customer := f.party(t, entity.RoleCustomer, "0")
	f.item(t, "a", "10", "0")
	f.item(t, "b", "1", "0")

	_, err := f.create(t, dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Lines: []dto.VoucherLineRequest{
		{ItemID: "a", Quantity: d("5")},
		{ItemID: "b", Quantity: d("2")},
	}})

	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	assert.True(t, f.stockOf(t, "a").Equal(d("10")))
	assert.True(t, f.stockOf(t, "b").Equal(d("1")))
	assert.Empty(t, f.vouchers(t))
}

func TestCreate_SobreventaPermitidaPorDefecto(t *testing.T) {
	f := newFixture(t, voucher.Options{Stock: stock.Policy{AllowNegative: true}})
	customer := f.party(t, entity.RoleCustomer, "0")
	f.item(t, "a", "1", "0")

	_, err := f.create(t, dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID,
		Lines: []dto.VoucherLineRequest{{ItemID: "a", Quantity: d("3")}}})

	require.NoError(t, err)
	assert.True(t, f.stockOf(t, "a").Equal(d("-2")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	customer := f.party(t, entity.RoleCustomer, "0")
	supplier := f.party(t, entity.RoleSupplier, "0")
	f.item(t, "a", "10", "0")

	cases := []struct {
		name string
		in   dto.CreateVoucherRequest
		want error
	}{
		{"tipo desconocido", dto.CreateVoucherRequest{Type: "refund", PartyID: customer.ID}, domain.ErrValidation},
		{"importe negativo", dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("-1")}, domain.ErrValidation},
		{"venta contra proveedor", dto.CreateVoucherRequest{Type: "sales", PartyID: supplier.ID, Amount: d("1")}, domain.ErrValidation},
		{"pago contra cliente", dto.CreateVoucherRequest{Type: "payment", PartyID: customer.ID, Amount: d("1")}, domain.ErrValidation},
		{"tercero inexistente", dto.CreateVoucherRequest{Type: "sales", PartyID: "nope", Amount: d("1")}, domain.ErrNotFound},
		{"líneas en un recibo", dto.CreateVoucherRequest{Type: "receipt", PartyID: customer.ID, Amount: d("1"),
			Lines: []dto.VoucherLineRequest{{ItemID: "a", Quantity: d("1")}}}, domain.ErrValidation},
		{"cantidad cero", dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID,
			Lines: []dto.VoucherLineRequest{{ItemID: "a", Quantity: d("0")}}}, domain.ErrValidation},
		{"importe distinto a las líneas", dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("99"),
			Lines: []dto.VoucherLineRequest{{ItemID: "a", Quantity: d("1")}}}, domain.ErrValidation},
		{"artículo inexistente", dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID,
			Lines: []dto.VoucherLineRequest{{ItemID: "zzz", Quantity: d("1")}}}, domain.ErrNotFound},
		{"fecha mal formada", dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("1"), Date: "15/03/2024"}, domain.ErrValidation},
		{"importe con fracción de centavo", dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("100.004")}, domain.ErrValidation},
		{"tarifa con tres decimales", dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID,
			Lines: []dto.VoucherLineRequest{{ItemID: "a", Quantity: d("1"), Rate: d("1.005")}}}, domain.ErrValidation},
		{"cantidad con cinco decimales", dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID,
			Lines: []dto.VoucherLineRequest{{ItemID: "a", Quantity: d("0.00001")}}}, domain.ErrValidation},
		{"total de líneas fuera de centavos", dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID,
			Lines: []dto.VoucherLineRequest{{ItemID: "a", Quantity: d("0.0005")}}}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.create(t, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.vouchers(t), "ninguna validación fallida persiste")
	assert.True(t, f.stockOf(t, "a").Equal(d("10")))
}

func TestCreate_TerceroDeOtraEmpresaEsNotFound(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	customer := f.party(t, entity.RoleCustomer, "0")

	_, err := f.uc.Create(context.Background(), "other-company", testUserID,
		dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("1")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ContextoCanceladoNoPersiste(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	customer := f.party(t, entity.RoleCustomer, "0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.Create(ctx, testCompanyID, testUserID,
		dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("1")})

	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Empty(t, f.vouchers(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_DevuelveLineas(t *testing.T) {
	f := newFixture(t, voucher.Options{Stock: stock.Policy{AllowNegative: true}})
	supplier := f.party(t, entity.RoleSupplier, "0")
	f.item(t, "a", "0", "0")
	created, err := f.create(t, dto.CreateVoucherRequest{Type: "purchase", PartyID: supplier.ID, Date: "2024-02-01",
		Lines: []dto.VoucherLineRequest{{ItemID: "a", Quantity: d("2"), Rate: d("7.5")}}})
	require.NoError(t, err)

	got, err := f.uc.GetByID(context.Background(), testCompanyID, created.ID)

	require.NoError(t, err)
	assert.Equal(t, "PUR-0001", got.VoucherNumber)
	assert.Equal(t, supplier.Name, got.PartyName)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].Amount.Equal(d("15")))

	// Importe de línea exacto: 2.5 × 0.99 = 2.475 y 0.5 × 0.01 = 0.005; el total cierra en 2.48.
	exact, err := f.create(t, dto.CreateVoucherRequest{Type: "purchase", PartyID: supplier.ID, Date: "2024-02-02",
		Lines: []dto.VoucherLineRequest{
			{ItemID: "a", Quantity: d("2.5"), Rate: d("0.99")},
			{ItemID: "a", Quantity: d("0.5"), Rate: d("0.01")},
		}})
	require.NoError(t, err)
	require.Len(t, exact.Lines, 2)
	assert.True(t, exact.Lines[0].Amount.Equal(d("2.475")), exact.Lines[0].Amount.String())
	assert.True(t, exact.Amount.Equal(d("2.48")), exact.Amount.String())

	_, err = f.uc.GetByID(context.Background(), "other-company", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// failingParties falla las lecturas por ID una vez activado.
type failingParties struct {
	repository.PartyRepository
	fail bool
}

func (p *failingParties) GetByID(ctx context.Context, id string) (*entity.Party, error) {
	if p.fail {
		return nil, domain.Unavailable("select party", errors.New("connection reset"))
	}
	return p.PartyRepository.GetByID(ctx, id)
}

func TestGetByID_ErrorAlLeerElTerceroSePropaga(t *testing.T) {
	store := memory.New()
	parties := &failingParties{PartyRepository: store.Parties()}
	uc := voucher.NewVoucherUseCase(store, parties, store.Items(), store.Vouchers(), voucher.Options{}, nil)
	customer := &entity.Party{ID: uuid.New().String(), CompanyID: testCompanyID, Role: entity.RoleCustomer, Name: "Ana"}
	require.NoError(t, store.Parties().Create(context.Background(), customer))
	created, err := uc.Create(context.Background(), testCompanyID, testUserID,
		dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("10")})
	require.NoError(t, err)

	parties.fail = true
	out, err := uc.GetByID(context.Background(), testCompanyID, created.ID)

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestList_MasRecientesPrimeroYFiltroPorTipo(t *testing.T) {
	f := newFixture(t, voucher.Options{})
	customer := f.party(t, entity.RoleCustomer, "0")
	for _, date := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		_, err := f.create(t, dto.CreateVoucherRequest{Type: "sales", PartyID: customer.ID, Amount: d("1"), Date: date})
		require.NoError(t, err)
	}
	_, err := f.create(t, dto.CreateVoucherRequest{Type: "receipt", PartyID: customer.ID, Amount: d("1"), Date: "2024-04-01"})
	require.NoError(t, err)

	out, err := f.uc.List(context.Background(), testCompanyID, voucher.ListFilter{Type: "sales"})

	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	assert.Equal(t, "2024-03-01", out.Items[0].Date)
	assert.Equal(t, "2024-02-01", out.Items[1].Date)
	assert.Equal(t, "2024-01-01", out.Items[2].Date)
	assert.Equal(t, 20, out.Page.Limit)
}
