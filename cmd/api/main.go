package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/ledgerbook-api/internal/application/analytics"
	"github.com/jhoicas/ledgerbook-api/internal/application/auth"
	"github.com/jhoicas/ledgerbook-api/internal/application/inventory"
	"github.com/jhoicas/ledgerbook-api/internal/application/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/application/usecase"
	"github.com/jhoicas/ledgerbook-api/internal/application/voucher"
	domainledger "github.com/jhoicas/ledgerbook-api/internal/domain/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/domain/stock"
	httpRouter "github.com/jhoicas/ledgerbook-api/internal/interfaces/http"
	"github.com/jhoicas/ledgerbook-api/pkg/config"
	"github.com/jhoicas/ledgerbook-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer st.close()

	revoked := auth.NewRevocationList()
	authUC := auth.NewAuthUseCase(st.users, st.companies, revoked, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	companyUC := usecase.NewCompanyUseCase(st.companies, st.users, authUC)
	partyUC := usecase.NewPartyUseCase(st.parties, st.vouchers)
	itemUC := inventory.NewItemUseCase(st.items, st.vouchers, log)
	voucherUC := voucher.NewVoucherUseCase(st.tx, st.parties, st.items, st.vouchers, voucher.Options{
		Guard:    domainledger.Guard{CustomerReceipts: cfg.Ledger.GuardCustomerReceipts},
		Stock:    stock.Policy{AllowNegative: cfg.Ledger.AllowNegativeStock},
		Location: loc,
	}, log)
	ledgerUC := ledger.NewLedgerUseCase(st.parties, st.vouchers, log)
	reportUC := appanalytics.NewReportUseCase(st.vouchers, loc)
	dashboardUC := appanalytics.NewDashboardUseCase(st.vouchers, itemUC, loc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Ledgerbook API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Revoked:     revoked,
		CompanyUC:   companyUC,
		PartyUC:     partyUC,
		ItemUC:      itemUC,
		VoucherUC:   voucherUC,
		LedgerUC:    ledgerUC,
		ReportUC:    reportUC,
		DashboardUC: dashboardUC,
		RateLimiter: httpRouter.NewCompanyRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
