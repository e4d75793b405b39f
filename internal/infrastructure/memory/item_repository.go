package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s  *Store
	tx *txState
}

func (r *ItemRepo) ov() *overlay[entity.Item] {
	if r.tx == nil {
		return nil
	}
	return r.tx.items
}

// put escribe la fila completa. Dentro de una tx la fila ya incluye el movimiento de stock
// pendiente, así que este se descarta.
func (r *ItemRepo) put(it entity.Item) {
	delete(r.tx.items.del, it.ID)
	delete(r.tx.stock, it.ID)
	r.tx.items.put[it.ID] = it
}

func (r *ItemRepo) get(id string) (entity.Item, bool) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.withStock(r.ov().get(r.s.items, id))
}

// withStock suma a la fila el movimiento de stock pendiente de la tx.
func (r *ItemRepo) withStock(it entity.Item, ok bool) (entity.Item, bool) {
	if !ok || r.tx == nil {
		return it, ok
	}
	if delta, pending := r.tx.stock[it.ID]; pending {
		it.CurrentStock = it.CurrentStock.Add(delta)
	}
	return it, true
}

func (r *ItemRepo) Create(_ context.Context, it *entity.Item) error {
	if r.tx != nil {
		r.put(*it)
		return nil
	}
	r.s.mu.Lock()
	r.s.items[it.ID] = *it
	r.s.mu.Unlock()
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	it, ok := r.get(id)
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// GetForUpdate bloquea el artículo hasta el fin de la tx y luego lo lee.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	if err := r.s.lock(r.tx, "item:"+id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Item, error) {
	r.s.mu.RLock()
	all := r.ov().all(r.s.items)
	r.s.mu.RUnlock()

	var list []*entity.Item
	for i := range all {
		it, _ := r.withStock(all[i], true)
		if it.CompanyID == companyID {
			list = append(list, &it)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return page(list, limit, offset), nil
}

// Update desplaza CurrentStock por la diferencia de OpeningStock, como el UPDATE de PostgreSQL.
// En auto-commit la lectura y la escritura ocurren bajo el mismo lock.
func (r *ItemRepo) Update(_ context.Context, it *entity.Item) error {
	if r.tx == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		current, ok := r.s.items[it.ID]
		if !ok {
			return nil
		}
		applyItemUpdate(&current, it)
		r.s.items[it.ID] = current
		it.CurrentStock = current.CurrentStock
		return nil
	}
	current, ok := r.get(it.ID)
	if !ok {
		return nil
	}
	applyItemUpdate(&current, it)
	r.put(current)
	it.CurrentStock = current.CurrentStock
	return nil
}

func applyItemUpdate(current, it *entity.Item) {
	current.CurrentStock = current.CurrentStock.Add(it.OpeningStock.Sub(current.OpeningStock))
	current.Name = it.Name
	current.Description = it.Description
	current.Unit = it.Unit
	current.Rate = it.Rate
	current.OpeningStock = it.OpeningStock
	current.ReorderLevel = it.ReorderLevel
	current.UpdatedAt = it.UpdatedAt
}

// SetStock dentro de una tx registra la diferencia respecto al valor leído; el commit la
// aplica sobre la fila vigente en ese momento.
func (r *ItemRepo) SetStock(_ context.Context, id string, quantity decimal.Decimal) error {
	if r.tx == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		current, ok := r.s.items[id]
		if !ok {
			return nil
		}
		current.CurrentStock = quantity
		current.UpdatedAt = time.Now()
		r.s.items[id] = current
		return nil
	}
	current, ok := r.get(id)
	if !ok {
		return nil
	}
	if r.tx.items.hasPut(id) {
		current.CurrentStock = quantity
		current.UpdatedAt = time.Now()
		r.put(current)
		return nil
	}
	r.tx.stock[id] = r.tx.stock[id].Add(quantity.Sub(current.CurrentStock))
	return nil
}

func (r *ItemRepo) HasPostings(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var lines *overlay[entity.VoucherLineItem]
	if r.tx != nil {
		lines = r.tx.lines
	}
	for _, l := range lines.all(r.s.lines) {
		if l.ItemID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	if r.tx != nil {
		delete(r.tx.items.put, id)
		delete(r.tx.stock, id)
		r.tx.items.del[id] = true
		return nil
	}
	r.s.mu.Lock()
	delete(r.s.items, id)
	r.s.mu.Unlock()
	return nil
}
