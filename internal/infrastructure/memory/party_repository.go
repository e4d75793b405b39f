package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
)

var _ repository.PartyRepository = (*PartyRepo)(nil)

// PartyRepo implementación en memoria de PartyRepository.
type PartyRepo struct {
	s  *Store
	tx *txState
}

func (r *PartyRepo) ov() *overlay[entity.Party] {
	if r.tx == nil {
		return nil
	}
	return r.tx.parties
}

func (r *PartyRepo) put(p entity.Party) {
	if r.tx != nil {
		delete(r.tx.parties.del, p.ID)
		r.tx.parties.put[p.ID] = p
		return
	}
	r.s.mu.Lock()
	r.s.parties[p.ID] = p
	r.s.mu.Unlock()
}

func (r *PartyRepo) Create(_ context.Context, p *entity.Party) error {
	r.put(*p)
	return nil
}

func (r *PartyRepo) GetByID(_ context.Context, id string) (*entity.Party, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.ov().get(r.s.parties, id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate bloquea el tercero hasta el fin de la tx y luego lo lee.
func (r *PartyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Party, error) {
	if err := r.s.lock(r.tx, "party:"+id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PartyRepo) ListByCompany(_ context.Context, companyID string, role entity.PartyRole, limit, offset int) ([]*entity.Party, error) {
	r.s.mu.RLock()
	all := r.ov().all(r.s.parties)
	r.s.mu.RUnlock()

	var list []*entity.Party
	for i := range all {
		p := all[i]
		if p.CompanyID != companyID || (role != "" && p.Role != role) {
			continue
		}
		list = append(list, &p)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return page(list, limit, offset), nil
}

func (r *PartyRepo) Update(_ context.Context, p *entity.Party) error {
	r.s.mu.RLock()
	current, ok := r.ov().get(r.s.parties, p.ID)
	r.s.mu.RUnlock()
	if !ok {
		return nil
	}
	current.Name = p.Name
	current.MobileNumber = p.MobileNumber
	current.Address = p.Address
	current.OpeningBalance = p.OpeningBalance
	current.UpdatedAt = p.UpdatedAt
	r.put(current)
	return nil
}

func (r *PartyRepo) Delete(_ context.Context, id string) error {
	if r.tx != nil {
		delete(r.tx.parties.put, id)
		r.tx.parties.del[id] = true
		return nil
	}
	r.s.mu.Lock()
	delete(r.s.parties, id)
	r.s.mu.Unlock()
	return nil
}

// page aplica limit/offset a un listado ya ordenado. limit 0 = sin límite.
func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
