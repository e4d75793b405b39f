package main

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/application/voucher"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/jhoicas/ledgerbook-api/internal/infrastructure/memory"
	"github.com/jhoicas/ledgerbook-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ledgerbook-api/pkg/config"
	"github.com/jhoicas/ledgerbook-api/pkg/logger"
)

// stores agrupa los repositorios y el ejecutor de transacciones del driver elegido.
type stores struct {
	tx        voucher.TxRunner
	users     repository.UserRepository
	companies repository.CompanyRepository
	parties   repository.PartyRepository
	items     repository.ItemRepository
	vouchers  repository.VoucherRepository
	close     func()
}

// openStores abre PostgreSQL (aplicando migraciones si DB_AUTO_MIGRATE) o el almacenamiento en memoria.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.New()
		return &stores{
			tx:        s,
			users:     s.Users(),
			companies: s.Companies(),
			parties:   s.Parties(),
			items:     s.Items(),
			vouchers:  s.Vouchers(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return &stores{
		tx:        postgres.NewTxRunner(pool),
		users:     postgres.NewUserRepository(pool),
		companies: postgres.NewCompanyRepository(pool),
		parties:   postgres.NewPartyRepository(pool),
		items:     postgres.NewItemRepository(pool),
		vouchers:  postgres.NewVoucherRepository(pool),
		close:     pool.Close,
	}, nil
}
