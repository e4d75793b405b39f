package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration es un paso versionado del esquema. Version ordena la aplicación.
type Migration struct {
	Version string
	Name    string
	Up      string
}

// Migrations es el esquema completo del libro contable, en orden.
var Migrations = []Migration{
	{
		Version: "20240101000001",
		Name:    "create_users_companies",
		Up: `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    company_id    UUID,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS companies (
    id            UUID PRIMARY KEY,
    owner_user_id UUID NOT NULL UNIQUE REFERENCES users (id),
    name          TEXT NOT NULL,
    mobile_number TEXT NOT NULL,
    address       TEXT NOT NULL,
    email         TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`,
	},
	{
		Version: "20240101000002",
		Name:    "create_parties_items",
		Up: `
CREATE TABLE IF NOT EXISTS parties (
    id              UUID PRIMARY KEY,
    company_id      UUID NOT NULL REFERENCES companies (id),
    role            TEXT NOT NULL CHECK (role IN ('customer', 'supplier')),
    name            TEXT NOT NULL,
    mobile_number   TEXT NOT NULL DEFAULT '',
    address         TEXT NOT NULL DEFAULT '',
    opening_balance NUMERIC(18,2) NOT NULL DEFAULT 0,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_parties_company_role ON parties (company_id, role);

CREATE TABLE IF NOT EXISTS items (
    id            UUID PRIMARY KEY,
    company_id    UUID NOT NULL REFERENCES companies (id),
    name          TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    unit          TEXT NOT NULL DEFAULT '',
    rate          NUMERIC(18,2) NOT NULL DEFAULT 0,
    opening_stock NUMERIC(18,4) NOT NULL DEFAULT 0,
    current_stock NUMERIC(18,4) NOT NULL DEFAULT 0,
    reorder_level NUMERIC(18,4) NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_items_company ON items (company_id);
`,
	},
	{
		Version: "20240101000003",
		Name:    "create_vouchers",
		Up: `
CREATE TABLE IF NOT EXISTS vouchers (
    id             UUID PRIMARY KEY,
    seq            BIGSERIAL NOT NULL,
    company_id     UUID NOT NULL REFERENCES companies (id),
    user_id        UUID NOT NULL REFERENCES users (id),
    party_id       UUID NOT NULL REFERENCES parties (id) ON DELETE RESTRICT,
    type           TEXT NOT NULL CHECK (type IN ('sales', 'purchase', 'receipt', 'payment')),
    voucher_number TEXT NOT NULL,
    date           DATE NOT NULL,
    amount         NUMERIC(18,2) NOT NULL CHECK (amount >= 0),
    narration      TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT uq_vouchers_number UNIQUE (company_id, type, voucher_number)
);
CREATE INDEX IF NOT EXISTS idx_vouchers_party_date ON vouchers (party_id, date, seq);
CREATE INDEX IF NOT EXISTS idx_vouchers_company_date ON vouchers (company_id, date, seq);
CREATE INDEX IF NOT EXISTS idx_vouchers_company_type_seq ON vouchers (company_id, type, seq DESC);

CREATE TABLE IF NOT EXISTS voucher_line_items (
    id         UUID PRIMARY KEY,
    voucher_id UUID NOT NULL REFERENCES vouchers (id),
    item_id    UUID NOT NULL REFERENCES items (id) ON DELETE RESTRICT,
    quantity   NUMERIC(18,4) NOT NULL CHECK (quantity > 0),
    rate       NUMERIC(18,2) NOT NULL,
    amount     NUMERIC(18,2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_voucher_lines_voucher ON voucher_line_items (voucher_id);
CREATE INDEX IF NOT EXISTS idx_voucher_lines_item ON voucher_line_items (item_id);
`,
	},
	{
		// cantidad (4 decimales) × tarifa (2 decimales) sin redondeo.
		Version: "20240101000004",
		Name:    "widen_voucher_line_amount",
		Up:      `ALTER TABLE voucher_line_items ALTER COLUMN amount TYPE NUMERIC(24,6);`,
	},
}

// Migrate aplica en una transacción cada migración que aún no figure en schema_migrations.
// Devuelve las versiones aplicadas en esta ejecución.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin migration", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	// Evita que dos instancias migren a la vez.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('schema_migrations'))`); err != nil {
		return nil, storageErr("lock migrations", err)
	}

	var applied []string
	for _, m := range Migrations {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version).Scan(&exists); err != nil {
			return nil, storageErr("check migration", err)
		}
		if exists {
			continue
		}
		if _, err := tx.Exec(ctx, m.Up); err != nil {
			return nil, fmt.Errorf("migration %s (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
			return nil, storageErr("record migration", err)
		}
		applied = append(applied, m.Version)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit migration", err)
	}
	return applied, nil
}
