package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ledgerbook-api/internal/application/voucher"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
)

// Ensure TxRunner implements voucher.TxRunner.
var _ voucher.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los advisory locks y los SELECT FOR UPDATE tomados por fn se liberan al terminar la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(
	partyRepo repository.PartyRepository,
	itemRepo repository.ItemRepository,
	voucherRepo repository.VoucherRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	partyRepo := NewPartyRepository(tx)
	itemRepo := NewItemRepository(tx)
	voucherRepo := NewVoucherRepository(tx)

	if err := fn(partyRepo, itemRepo, voucherRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}
