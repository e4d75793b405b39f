package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/ledgerbook-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ledgerbook-api/pkg/config"
	"github.com/jhoicas/ledgerbook-api/pkg/logger"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Herramientas de operación del libro contable",
	Long: `ledgerctl opera directamente sobre la base PostgreSQL configurada
(DATABASE_URL o DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// env reúne lo que necesita cada subcomando.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
	loc  *time.Location
}

// openEnv carga la configuración y abre el pool. El llamador debe cerrar el pool.
func openEnv(ctx context.Context, component string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component(component)
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool, loc: loc}, nil
}

// printJSON escribe v indentado en stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
