package repository

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
)

// PartyRepository define el puerto de persistencia para terceros (clientes y proveedores).
// Los métodos Get devuelven (nil, nil) cuando el registro no existe.
type PartyRepository interface {
	Create(ctx context.Context, party *entity.Party) error
	GetByID(ctx context.Context, id string) (*entity.Party, error)
	// GetForUpdate bloquea la fila del tercero hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Party, error)
	// ListByCompany lista terceros; role vacío devuelve ambos roles.
	ListByCompany(ctx context.Context, companyID string, role entity.PartyRole, limit, offset int) ([]*entity.Party, error)
	Update(ctx context.Context, party *entity.Party) error
	Delete(ctx context.Context, id string) error
}
