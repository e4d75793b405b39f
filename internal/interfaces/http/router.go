package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/ledgerbook-api/internal/application/analytics"
	"github.com/jhoicas/ledgerbook-api/internal/application/auth"
	"github.com/jhoicas/ledgerbook-api/internal/application/inventory"
	"github.com/jhoicas/ledgerbook-api/internal/application/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/application/usecase"
	"github.com/jhoicas/ledgerbook-api/internal/application/voucher"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Revoked     RevocationChecker
	CompanyUC   *usecase.CompanyUseCase
	PartyUC     *usecase.PartyUseCase
	ItemUC      *inventory.ItemUseCase
	VoucherUC   *voucher.VoucherUseCase
	LedgerUC    *ledger.LedgerUseCase
	ReportUC    *appanalytics.ReportUseCase
	DashboardUC *appanalytics.DashboardUseCase
	RateLimiter *CompanyRateLimiter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas con token; el setup de empresa todavía no exige company_id
	protected := api.Group("/", AuthMiddleware(deps.AuthUC.Tokens(), deps.Revoked))
	protected.Get("/auth/session", authHandler.Session)
	protected.Post("/auth/logout", authHandler.Logout)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Post("/companies", companyHandler.Setup)

	// Rutas de la empresa (token con company_id + límite por empresa)
	scoped := []fiber.Handler{RequireCompany()}
	if deps.RateLimiter != nil {
		scoped = append(scoped, deps.RateLimiter.Middleware())
	}
	tenant := protected.Group("/", scoped...)
	tenant.Get("/companies/current", companyHandler.Current)

	partyHandler := NewPartyHandler(deps.PartyUC, deps.LedgerUC)
	parties := tenant.Group("/parties")
	parties.Post("/", partyHandler.Create)
	parties.Get("/", partyHandler.List)
	parties.Get("/:id", partyHandler.GetByID)
	parties.Put("/:id", partyHandler.Update)
	parties.Delete("/:id", partyHandler.Delete)
	parties.Get("/:id/ledger", partyHandler.Ledger)
	parties.Get("/:id/balance", partyHandler.Balance)

	itemHandler := NewItemHandler(deps.ItemUC)
	items := tenant.Group("/items")
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	voucherHandler := NewVoucherHandler(deps.VoucherUC)
	vouchers := tenant.Group("/vouchers")
	vouchers.Get("/next-number", voucherHandler.NextNumber)
	vouchers.Post("/", voucherHandler.Create)
	vouchers.Get("/", voucherHandler.List)
	vouchers.Get("/:id", voucherHandler.GetByID)

	tenant.Get("/reports/summary", NewReportHandler(deps.ReportUC).Summary)
	tenant.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).GetSummary)
}
