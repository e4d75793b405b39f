package memory

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/jhoicas/ledgerbook-api/internal/domain/stock"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

// VoucherRepo implementación en memoria de VoucherRepository.
type VoucherRepo struct {
	s  *Store
	tx *txState
}

func (r *VoucherRepo) ov() *overlay[entity.Voucher] {
	if r.tx == nil {
		return nil
	}
	return r.tx.vouchers
}

func (r *VoucherRepo) linesOv() *overlay[entity.VoucherLineItem] {
	if r.tx == nil {
		return nil
	}
	return r.tx.lines
}

// visible devuelve los comprobantes confirmados más los pendientes de esta tx.
func (r *VoucherRepo) visible() []entity.Voucher {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.ov().all(r.s.vouchers)
}

// LockSequence toma la clave (empresa, tipo) hasta el fin de la tx.
func (r *VoucherRepo) LockSequence(_ context.Context, companyID string, typ entity.VoucherType) error {
	return r.s.lock(r.tx, "seq:"+companyID+":"+string(typ))
}

func (r *VoucherRepo) LastNumber(_ context.Context, companyID string, typ entity.VoucherType) (string, error) {
	var (
		last    string
		lastSeq int64
	)
	for _, v := range r.visible() {
		if v.CompanyID == companyID && v.Type == typ && v.Seq > lastSeq {
			last, lastSeq = v.VoucherNumber, v.Seq
		}
	}
	return last, nil
}

// Create asigna Seq y registra la cabecera. Fuera de una tx verifica la unicidad del número
// en el momento; dentro de una tx la verificación ocurre en el commit.
func (r *VoucherRepo) Create(_ context.Context, v *entity.Voucher) error {
	v.Seq = r.s.seq.Add(1)
	if r.tx != nil {
		r.tx.vouchers.put[v.ID] = *v
		return nil
	}
	tx := &txState{vouchers: newOverlay[entity.Voucher](), parties: newOverlay[entity.Party](),
		items: newOverlay[entity.Item](), lines: newOverlay[entity.VoucherLineItem]()}
	tx.vouchers.put[v.ID] = *v
	return r.s.commit(tx)
}

func (r *VoucherRepo) CreateLine(_ context.Context, l *entity.VoucherLineItem) error {
	if r.tx != nil {
		r.tx.lines.put[l.ID] = *l
		return nil
	}
	r.s.mu.Lock()
	r.s.lines[l.ID] = *l
	r.s.mu.Unlock()
	return nil
}

func (r *VoucherRepo) GetByID(_ context.Context, id string) (*entity.Voucher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.ov().get(r.s.vouchers, id)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *VoucherRepo) GetLines(_ context.Context, voucherID string) ([]entity.VoucherLineItem, error) {
	r.s.mu.RLock()
	all := r.linesOv().all(r.s.lines)
	r.s.mu.RUnlock()

	var lines []entity.VoucherLineItem
	for _, l := range all {
		if l.VoucherID == voucherID {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

func (r *VoucherRepo) List(_ context.Context, f repository.VoucherFilter) ([]entity.Voucher, error) {
	var list []entity.Voucher
	for _, v := range r.visible() {
		if !matches(v, f) {
			continue
		}
		list = append(list, v)
	}
	ledger.SortVouchers(list)
	if !f.Ascending {
		reverse(list)
	}
	return page(list, f.Limit, f.Offset), nil
}

func matches(v entity.Voucher, f repository.VoucherFilter) bool {
	switch {
	case v.CompanyID != f.CompanyID:
		return false
	case f.Type != "" && v.Type != f.Type:
		return false
	case f.PartyID != "" && v.PartyID != f.PartyID:
		return false
	case f.From != nil && v.Date.Before(*f.From):
		return false
	case f.To != nil && v.Date.After(*f.To):
		return false
	}
	return true
}

func reverse(list []entity.Voucher) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
}

func (r *VoucherRepo) CountByParty(_ context.Context, partyID string) (int, error) {
	n := 0
	for _, v := range r.visible() {
		if v.PartyID == partyID {
			n++
		}
	}
	return n, nil
}

func (r *VoucherRepo) ListPostings(_ context.Context, companyID string) ([]stock.Posting, error) {
	vouchers := make(map[string]entity.Voucher)
	var ordered []entity.Voucher
	for _, v := range r.visible() {
		if v.CompanyID == companyID {
			vouchers[v.ID] = v
			ordered = append(ordered, v)
		}
	}
	ledger.SortVouchers(ordered)

	r.s.mu.RLock()
	all := r.linesOv().all(r.s.lines)
	r.s.mu.RUnlock()
	byVoucher := make(map[string][]entity.VoucherLineItem)
	for _, l := range all {
		if _, ok := vouchers[l.VoucherID]; ok {
			byVoucher[l.VoucherID] = append(byVoucher[l.VoucherID], l)
		}
	}

	var postings []stock.Posting
	for _, v := range ordered {
		for _, l := range byVoucher[v.ID] {
			postings = append(postings, stock.Posting{Type: v.Type, ItemID: l.ItemID, Quantity: l.Quantity})
		}
	}
	return postings, nil
}
