// Package memory implementa los repositorios en memoria (desarrollo sin base de datos y tests).
// Las transacciones bloquean por clave como lo haría PostgreSQL (advisory lock, FOR UPDATE) y
// acumulan las escrituras en un overlay que solo se aplica en el commit.
package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledgerbook-api/internal/application/voucher"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
)

var _ voucher.TxRunner = (*Store)(nil)

// Store guarda todas las colecciones. mu protege los mapas; locks serializa transacciones por clave.
type Store struct {
	mu        sync.RWMutex
	users     map[string]entity.User
	companies map[string]entity.Company
	parties   map[string]entity.Party
	items     map[string]entity.Item
	vouchers  map[string]entity.Voucher
	lines     map[string]entity.VoucherLineItem

	seq   atomic.Int64
	locks *keyedLocks
}

// New crea un almacenamiento vacío.
func New() *Store {
	return &Store{
		users:     make(map[string]entity.User),
		companies: make(map[string]entity.Company),
		parties:   make(map[string]entity.Party),
		items:     make(map[string]entity.Item),
		vouchers:  make(map[string]entity.Voucher),
		lines:     make(map[string]entity.VoucherLineItem),
		locks:     newKeyedLocks(),
	}
}

// Parties, Items, Vouchers, Companies y Users devuelven repositorios en modo auto-commit.
func (s *Store) Parties() *PartyRepo     { return &PartyRepo{s: s} }
func (s *Store) Items() *ItemRepo        { return &ItemRepo{s: s} }
func (s *Store) Vouchers() *VoucherRepo  { return &VoucherRepo{s: s} }
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }
func (s *Store) Users() *UserRepo        { return &UserRepo{s: s} }

// txState es el estado de una transacción: claves bloqueadas y escrituras pendientes.
type txState struct {
	ctx      context.Context
	held     map[string]bool
	parties  *overlay[entity.Party]
	items    *overlay[entity.Item]
	vouchers *overlay[entity.Voucher]
	lines    *overlay[entity.VoucherLineItem]
	// stock guarda el movimiento neto de CurrentStock por artículo; el commit lo suma a la
	// fila confirmada para no pisar ediciones hechas fuera de la tx.
	stock map[string]decimal.Decimal
}

// Run ejecuta fn con repos atados a una transacción. Si fn falla, o el contexto se cancela
// antes del commit, no se aplica ninguna escritura.
func (s *Store) Run(ctx context.Context, fn func(
	partyRepo repository.PartyRepository,
	itemRepo repository.ItemRepository,
	voucherRepo repository.VoucherRepository,
) error) error {
	tx := &txState{
		ctx:      ctx,
		held:     make(map[string]bool),
		parties:  newOverlay[entity.Party](),
		items:    newOverlay[entity.Item](),
		vouchers: newOverlay[entity.Voucher](),
		lines:    newOverlay[entity.VoucherLineItem](),
		stock:    make(map[string]decimal.Decimal),
	}
	defer s.release(tx)

	if err := fn(&PartyRepo{s: s, tx: tx}, &ItemRepo{s: s, tx: tx}, &VoucherRepo{s: s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.Unavailable("commit transaction", err)
	}
	return s.commit(tx)
}

// lock toma la clave para la tx (reentrante dentro de la misma tx). Sin tx no hace nada.
func (s *Store) lock(tx *txState, key string) error {
	if tx == nil || tx.held[key] {
		return nil
	}
	if err := s.locks.acquire(tx.ctx, key); err != nil {
		return domain.Unavailable("lock "+key, err)
	}
	tx.held[key] = true
	return nil
}

func (s *Store) release(tx *txState) {
	for key := range tx.held {
		s.locks.release(key)
	}
}

func (s *Store) commit(tx *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Mismo contrato que el UNIQUE (company_id, type, voucher_number) de PostgreSQL.
	for _, v := range tx.vouchers.put {
		for _, existing := range s.vouchers {
			if existing.CompanyID == v.CompanyID && existing.Type == v.Type && existing.VoucherNumber == v.VoucherNumber {
				return domain.Constraint("número de comprobante duplicado %s", v.VoucherNumber)
			}
		}
	}
	tx.parties.apply(s.parties)
	tx.items.apply(s.items)
	tx.vouchers.apply(s.vouchers)
	tx.lines.apply(s.lines)
	now := time.Now()
	for id, delta := range tx.stock {
		it, ok := s.items[id]
		if !ok {
			continue
		}
		it.CurrentStock = it.CurrentStock.Add(delta)
		it.UpdatedAt = now
		s.items[id] = it
	}
	return nil
}

// ── overlay ───────────────────────────────────────────────────────────────────

// overlay acumula altas, cambios y bajas sobre un mapa confirmado. Un overlay nil es
// transparente: las lecturas van directo al mapa confirmado.
type overlay[T any] struct {
	put map[string]T
	del map[string]bool
}

func newOverlay[T any]() *overlay[T] {
	return &overlay[T]{put: make(map[string]T), del: make(map[string]bool)}
}

func (o *overlay[T]) get(committed map[string]T, id string) (T, bool) {
	if o != nil {
		if o.del[id] {
			var zero T
			return zero, false
		}
		if v, ok := o.put[id]; ok {
			return v, true
		}
	}
	v, ok := committed[id]
	return v, ok
}

// all devuelve las filas visibles ordenadas por clave (orden estable para los listados).
func (o *overlay[T]) all(committed map[string]T) []T {
	keys := make([]string, 0, len(committed))
	for k := range committed {
		if o == nil || (!o.del[k] && !o.hasPut(k)) {
			keys = append(keys, k)
		}
	}
	if o != nil {
		for k := range o.put {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		v, _ := o.get(committed, k)
		out = append(out, v)
	}
	return out
}

func (o *overlay[T]) hasPut(id string) bool {
	_, ok := o.put[id]
	return ok
}

func (o *overlay[T]) apply(committed map[string]T) {
	for id := range o.del {
		delete(committed, id)
	}
	for id, v := range o.put {
		committed[id] = v
	}
}

// ── keyed locks ───────────────────────────────────────────────────────────────

type lockEntry struct {
	ch   chan struct{}
	refs int
}

// keyedLocks es un mutex por clave que respeta la cancelación del contexto.
type keyedLocks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{m: make(map[string]*lockEntry)}
}

func (k *keyedLocks) acquire(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.mu.Lock()
	e, ok := k.m[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		k.m[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		k.unref(key, e)
		return ctx.Err()
	}
}

func (k *keyedLocks) release(key string) {
	k.mu.Lock()
	e := k.m[key]
	k.mu.Unlock()
	<-e.ch
	k.unref(key, e)
}

func (k *keyedLocks) unref(key string, e *lockEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.m, key)
	}
}
