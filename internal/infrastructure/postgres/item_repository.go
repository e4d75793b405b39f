package postgres

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, name, description, unit, rate, opening_stock, current_stock, reorder_level, created_at, updated_at`

func scanItem(row interface{ Scan(dest ...any) error }) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.CompanyID, &it.Name, &it.Description, &it.Unit, &it.Rate,
		&it.OpeningStock, &it.CurrentStock, &it.ReorderLevel, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.CompanyID, it.Name, it.Description, it.Unit, it.Rate,
		it.OpeningStock, it.CurrentStock, it.ReorderLevel, it.CreatedAt, it.UpdatedAt,
	)
	return storageErr("insert item", err)
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get item", err)
	}
	return it, nil
}

// GetForUpdate obtiene el artículo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get item for update", err)
	}
	return it, nil
}

// ListByCompany lista los artículos de la empresa ordenados por nombre.
func (r *ItemRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items WHERE company_id = $1
		ORDER BY name, created_at
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, storageErr("list items", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, storageErr("scan item", err)
		}
		list = append(list, it)
	}
	return list, storageErr("list items", rows.Err())
}

// Update actualiza datos maestros. En el SET las expresiones leen la fila previa, así que
// current_stock se desplaza por (nuevo opening - opening anterior).
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET
			name = $2, description = $3, unit = $4, rate = $5,
			current_stock = current_stock + ($6 - opening_stock),
			opening_stock = $6, reorder_level = $7, updated_at = $8
		WHERE id = $1
		RETURNING current_stock`
	err := r.q.QueryRow(ctx, query,
		it.ID, it.Name, it.Description, it.Unit, it.Rate, it.OpeningStock, it.ReorderLevel, it.UpdatedAt,
	).Scan(&it.CurrentStock)
	if err != nil {
		if isNoRows(err) {
			return nil
		}
		return storageErr("update item", err)
	}
	return nil
}

// SetStock fija el stock actual del artículo.
func (r *ItemRepo) SetStock(ctx context.Context, id string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE items SET current_stock = $2, updated_at = now() WHERE id = $1`, id, quantity)
	return storageErr("set item stock", err)
}

// HasPostings informa si alguna línea de comprobante referencia el artículo.
func (r *ItemRepo) HasPostings(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM voucher_line_items WHERE item_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, storageErr("check item postings", err)
	}
	return exists, nil
}

// Delete elimina un artículo.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	return storageErr("delete item", err)
}
