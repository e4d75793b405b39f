package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/jhoicas/ledgerbook-api/internal/domain/stock"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

// VoucherRepo implementación de VoucherRepository sobre PostgreSQL (usable con pool o tx).
type VoucherRepo struct {
	q Querier
}

// NewVoucherRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVoucherRepository(q Querier) *VoucherRepo {
	return &VoucherRepo{q: q}
}

const voucherColumns = `id, company_id, user_id, party_id, type, voucher_number, date, amount, narration, seq, created_at`

// LockSequence toma un advisory lock de transacción por (empresa, tipo).
// Solo tiene efecto dentro de una tx: con el pool el lock se libera al terminar la sentencia.
func (r *VoucherRepo) LockSequence(ctx context.Context, companyID string, typ entity.VoucherType) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID+":"+string(typ))
	return storageErr("lock voucher sequence", err)
}

// LastNumber devuelve el número del comprobante más reciente de (empresa, tipo).
func (r *VoucherRepo) LastNumber(ctx context.Context, companyID string, typ entity.VoucherType) (string, error) {
	var number string
	err := r.q.QueryRow(ctx, `
		SELECT voucher_number FROM vouchers
		WHERE company_id = $1 AND type = $2
		ORDER BY seq DESC LIMIT 1`, companyID, typ).Scan(&number)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", storageErr("last voucher number", err)
	}
	return number, nil
}

// Create inserta la cabecera y devuelve en v el seq y created_at asignados por la base.
func (r *VoucherRepo) Create(ctx context.Context, v *entity.Voucher) error {
	query := `
		INSERT INTO vouchers (id, company_id, user_id, party_id, type, voucher_number, date, amount, narration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		v.ID, v.CompanyID, v.UserID, v.PartyID, v.Type, v.VoucherNumber,
		v.Date, v.Amount, v.Narration, v.CreatedAt,
	).Scan(&v.Seq)
	return storageErr("insert voucher", err)
}

// CreateLine inserta una línea de artículo.
func (r *VoucherRepo) CreateLine(ctx context.Context, l *entity.VoucherLineItem) error {
	query := `
		INSERT INTO voucher_line_items (id, voucher_id, item_id, quantity, rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, l.ID, l.VoucherID, l.ItemID, l.Quantity, l.Rate, l.Amount)
	return storageErr("insert voucher line", err)
}

// GetByID obtiene la cabecera de un comprobante.
func (r *VoucherRepo) GetByID(ctx context.Context, id string) (*entity.Voucher, error) {
	var v entity.Voucher
	err := r.q.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id).Scan(
		&v.ID, &v.CompanyID, &v.UserID, &v.PartyID, &v.Type, &v.VoucherNumber,
		&v.Date, &v.Amount, &v.Narration, &v.Seq, &v.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get voucher", err)
	}
	return &v, nil
}

// GetLines devuelve las líneas de un comprobante.
func (r *VoucherRepo) GetLines(ctx context.Context, voucherID string) ([]entity.VoucherLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, voucher_id, item_id, quantity, rate, amount
		FROM voucher_line_items WHERE voucher_id = $1
		ORDER BY id`, voucherID)
	if err != nil {
		return nil, storageErr("get voucher lines", err)
	}
	defer rows.Close()

	var lines []entity.VoucherLineItem
	for rows.Next() {
		var l entity.VoucherLineItem
		if err := rows.Scan(&l.ID, &l.VoucherID, &l.ItemID, &l.Quantity, &l.Rate, &l.Amount); err != nil {
			return nil, storageErr("scan voucher line", err)
		}
		lines = append(lines, l)
	}
	return lines, storageErr("get voucher lines", rows.Err())
}

// List devuelve comprobantes según el filtro. El orden es siempre (date, seq).
func (r *VoucherRepo) List(ctx context.Context, f repository.VoucherFilter) ([]entity.Voucher, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.PartyID != "" {
		add("party_id = $%d", f.PartyID)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}

	order := "date DESC, seq DESC"
	if f.Ascending {
		order = "date ASC, seq ASC"
	}
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + order
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list vouchers", err)
	}
	defer rows.Close()

	var list []entity.Voucher
	for rows.Next() {
		var v entity.Voucher
		if err := rows.Scan(
			&v.ID, &v.CompanyID, &v.UserID, &v.PartyID, &v.Type, &v.VoucherNumber,
			&v.Date, &v.Amount, &v.Narration, &v.Seq, &v.CreatedAt,
		); err != nil {
			return nil, storageErr("scan voucher", err)
		}
		list = append(list, v)
	}
	return list, storageErr("list vouchers", rows.Err())
}

// CountByParty cuenta los comprobantes que referencian al tercero.
func (r *VoucherRepo) CountByParty(ctx context.Context, partyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM vouchers WHERE party_id = $1`, partyID).Scan(&n); err != nil {
		return 0, storageErr("count party vouchers", err)
	}
	return n, nil
}

// ListPostings devuelve las líneas de la empresa con el tipo de su comprobante.
func (r *VoucherRepo) ListPostings(ctx context.Context, companyID string) ([]stock.Posting, error) {
	rows, err := r.q.Query(ctx, `
		SELECT v.type, l.item_id, l.quantity
		FROM voucher_line_items l
		JOIN vouchers v ON v.id = l.voucher_id
		WHERE v.company_id = $1
		ORDER BY v.date, v.seq`, companyID)
	if err != nil {
		return nil, storageErr("list postings", err)
	}
	defer rows.Close()

	var list []stock.Posting
	for rows.Next() {
		var p stock.Posting
		if err := rows.Scan(&p.Type, &p.ItemID, &p.Quantity); err != nil {
			return nil, storageErr("scan posting", err)
		}
		list = append(list, p)
	}
	return list, storageErr("list postings", rows.Err())
}
