package postgres

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo implementación de PartyRepository sobre PostgreSQL (usable con pool o tx).
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

const partyColumns = `id, company_id, role, name, mobile_number, address, opening_balance, created_at, updated_at`

// Create persiste un nuevo tercero.
func (r *PartyRepo) Create(ctx context.Context, p *entity.Party) error {
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.Role, p.Name, p.MobileNumber, p.Address,
		p.OpeningBalance, p.CreatedAt, p.UpdatedAt,
	)
	return storageErr("insert party", err)
}

// GetByID obtiene un tercero por ID.
func (r *PartyRepo) GetByID(ctx context.Context, id string) (*entity.Party, error) {
	return r.getOne(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1`, id)
}

// GetForUpdate obtiene el tercero y bloquea la fila (SELECT FOR UPDATE).
func (r *PartyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Party, error) {
	return r.getOne(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1 FOR UPDATE`, id)
}

func (r *PartyRepo) getOne(ctx context.Context, query, id string) (*entity.Party, error) {
	var p entity.Party
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.Role, &p.Name, &p.MobileNumber, &p.Address,
		&p.OpeningBalance, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get party", err)
	}
	return &p, nil
}

// ListByCompany lista terceros de la empresa ordenados por nombre; role vacío = todos.
func (r *PartyRepo) ListByCompany(ctx context.Context, companyID string, role entity.PartyRole, limit, offset int) ([]*entity.Party, error) {
	query := `
		SELECT ` + partyColumns + `
		FROM parties
		WHERE company_id = $1 AND ($2 = '' OR role = $2)
		ORDER BY name, created_at
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, string(role), limit, offset)
	if err != nil {
		return nil, storageErr("list parties", err)
	}
	defer rows.Close()

	var list []*entity.Party
	for rows.Next() {
		var p entity.Party
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.Role, &p.Name, &p.MobileNumber, &p.Address,
			&p.OpeningBalance, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, storageErr("scan party", err)
		}
		list = append(list, &p)
	}
	return list, storageErr("list parties", rows.Err())
}

// Update actualiza los datos del tercero. El rol no cambia.
func (r *PartyRepo) Update(ctx context.Context, p *entity.Party) error {
	query := `
		UPDATE parties SET name = $2, mobile_number = $3, address = $4, opening_balance = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, p.ID, p.Name, p.MobileNumber, p.Address, p.OpeningBalance, p.UpdatedAt)
	return storageErr("update party", err)
}

// Delete elimina un tercero. La FK de vouchers impide borrar terceros con comprobantes.
func (r *PartyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM parties WHERE id = $1`, id)
	return storageErr("delete party", err)
}
