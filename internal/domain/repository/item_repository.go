package repository

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemRepository define el puerto de persistencia para artículos de inventario.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE) para serializar cambios de stock.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error)
	// Update actualiza los datos maestros. Si cambia OpeningStock, CurrentStock se desplaza
	// en la misma diferencia; CurrentStock recibido se ignora.
	Update(ctx context.Context, item *entity.Item) error
	// SetStock fija el stock actual (solo desde la contabilización de comprobantes).
	SetStock(ctx context.Context, id string, quantity decimal.Decimal) error
	HasPostings(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
