package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/ledgerbook-api/internal/application/analytics"
	"github.com/jhoicas/ledgerbook-api/internal/application/auth"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/application/inventory"
	"github.com/jhoicas/ledgerbook-api/internal/application/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/application/usecase"
	"github.com/jhoicas/ledgerbook-api/internal/application/voucher"
	"github.com/jhoicas/ledgerbook-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/ledgerbook-api/internal/interfaces/http"
)

// newServer arma la API completa sobre el almacenamiento en memoria.
func newServer(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	revoked := auth.NewRevocationList()
	authUC := auth.NewAuthUseCase(store.Users(), store.Companies(), revoked,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, nil)
	itemUC := inventory.NewItemUseCase(store.Items(), store.Vouchers(), nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		Revoked:     revoked,
		CompanyUC:   usecase.NewCompanyUseCase(store.Companies(), store.Users(), authUC),
		PartyUC:     usecase.NewPartyUseCase(store.Parties(), store.Vouchers()),
		ItemUC:      itemUC,
		VoucherUC:   voucher.NewVoucherUseCase(store, store.Parties(), store.Items(), store.Vouchers(), voucher.Options{}, nil),
		LedgerUC:    ledger.NewLedgerUseCase(store.Parties(), store.Vouchers(), nil),
		ReportUC:    appanalytics.NewReportUseCase(store.Vouchers(), nil),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Vouchers(), itemUC, nil),
		RateLimiter: apphttp.NewCompanyRateLimiter(1000, 1000),
	})
	return app
}

// call envía la petición y decodifica la respuesta JSON en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	if out != nil && resp.StatusCode >= 400 {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

// onboard registra un usuario, crea su empresa y devuelve el token con company_id.
func onboard(t *testing.T, app *fiber.App) string {
	t.Helper()
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/auth/register", "",
		dto.RegisterRequest{Email: "ana@example.com", Password: "secreta123", Name: "Ana"}, nil))

	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "ana@example.com", Password: "secreta123"}, &login))

	// Sin empresa las rutas de la empresa están cerradas.
	require.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/parties", login.Token, nil, nil))

	var setup dto.CompanySetupResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/companies", login.Token, dto.CreateCompanyRequest{
		Name: "Ferretería Central", MobileNumber: "3001234567", Address: "Calle 10 # 5-20", Email: "ventas@ferreteria.co",
	}, &setup))
	require.NotEmpty(t, setup.Token)
	return setup.Token
}

func TestRouter_FlujoProveedor(t *testing.T) {
	app := newServer(t)
	token := onboard(t, app)

	var supplier dto.PartyResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/parties", token, dto.CreatePartyRequest{
		Role: "supplier", Name: "Mayorista", OpeningBalance: decimal.NewFromInt(200),
	}, &supplier))

	var preview dto.NextNumberResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/vouchers/next-number?type=payment", token, nil, &preview))
	assert.Equal(t, "PAY-0001", preview.VoucherNumber)

	var rejected dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/vouchers", token, dto.CreateVoucherRequest{
		Type: "payment", PartyID: supplier.ID, Amount: decimal.NewFromInt(250),
	}, &rejected)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONSTRAINT_VIOLATION", rejected.Code)

	var created dto.VoucherResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/vouchers", token, dto.CreateVoucherRequest{
		Type: "payment", PartyID: supplier.ID, Amount: decimal.NewFromInt(150), Date: "2024-03-01",
	}, &created))
	assert.Equal(t, "PAY-0001", created.VoucherNumber)

	var book dto.LedgerResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/parties/"+supplier.ID+"/ledger", token, nil, &book))
	require.Len(t, book.Entries, 1)
	assert.True(t, book.ClosingBalance.Equal(decimal.NewFromInt(50)))

	var bal dto.BalanceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/parties/"+supplier.ID+"/balance", token, nil, &bal))
	assert.True(t, bal.Balance.Equal(decimal.NewFromInt(50)))

	// Con comprobantes el tercero no se puede borrar.
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodDelete, "/api/parties/"+supplier.ID, token, nil, nil))
}

func TestRouter_VentaConLineasYStockBajo(t *testing.T) {
	app := newServer(t)
	token := onboard(t, app)

	var customer dto.PartyResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/parties", token,
		dto.CreatePartyRequest{Role: "customer", Name: "Tienda"}, &customer))
	var item dto.ItemResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/items", token, dto.CreateItemRequest{
		Name: "Tornillo", Unit: "und", Rate: decimal.NewFromInt(2), OpeningStock: decimal.NewFromInt(10), ReorderLevel: decimal.NewFromInt(5),
	}, &item))

	var sale dto.VoucherResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/vouchers", token, dto.CreateVoucherRequest{
		Type: "sales", PartyID: customer.ID,
		Lines: []dto.VoucherLineRequest{{ItemID: item.ID, Quantity: decimal.NewFromInt(6)}},
	}, &sale))
	assert.Equal(t, "SAL-0001", sale.VoucherNumber)
	assert.True(t, sale.Amount.Equal(decimal.NewFromInt(12)))

	var low []dto.LowStockItemResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/items/low-stock", token, nil, &low))
	require.Len(t, low, 1)
	assert.True(t, low[0].CurrentStock.Equal(decimal.NewFromInt(4)))

	var dash dto.DashboardResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/dashboard", token, nil, &dash))
	assert.Equal(t, 1, dash.LowStockItems)
	assert.True(t, dash.Today.Sales.Equal(decimal.NewFromInt(12)))

	var got dto.VoucherResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/vouchers/"+sale.ID, token, nil, &got))
	assert.Len(t, got.Lines, 1)

	var summary dto.ReportSummaryResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/reports/summary?frame=daily", token, nil, &summary))
	assert.True(t, summary.Totals.Sales.Equal(decimal.NewFromInt(12)))
}

func TestRouter_ErroresTipados(t *testing.T) {
	app := newServer(t)
	token := onboard(t, app)

	var verr dto.ErrorResponse
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, app, http.MethodPost, "/api/vouchers", token,
		dto.CreateVoucherRequest{Type: "refund", PartyID: "x"}, &verr))
	assert.Equal(t, "VALIDATION", verr.Code)
	assert.NotEmpty(t, verr.Fields)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/parties/no-existe/ledger", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/dashboard", "", nil, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, app, http.MethodGet, "/api/reports/summary?frame=hourly", token, nil, nil))
}

func TestRouter_LogoutRevocaElToken(t *testing.T) {
	app := newServer(t)
	token := onboard(t, app)

	var session dto.SessionResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/auth/session", token, nil, &session))
	require.NotNil(t, session.Company)
	assert.Equal(t, "Ferretería Central", session.Company.Name)

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodPost, "/api/auth/logout", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/auth/session", token, nil, nil))
}
