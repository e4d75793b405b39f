package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/stock"
)

// VoucherFilter filtros de igualdad y orden para listar comprobantes.
type VoucherFilter struct {
	CompanyID string
	Type      entity.VoucherType // vacío = todos
	PartyID   string             // vacío = todos
	From      *time.Time         // fecha mínima inclusiva
	To        *time.Time         // fecha máxima inclusiva
	// Ascending ordena por (fecha, orden de creación) ascendente; si es false, más recientes primero.
	Ascending bool
	Limit     int // 0 = sin límite
	Offset    int
}

// VoucherRepository define el puerto de persistencia para comprobantes y sus líneas.
type VoucherRepository interface {
	// LockSequence serializa la asignación de números para (empresa, tipo) hasta el fin de la transacción.
	LockSequence(ctx context.Context, companyID string, typ entity.VoucherType) error
	// LastNumber devuelve el número del comprobante creado más recientemente, o "" si no hay ninguno.
	LastNumber(ctx context.Context, companyID string, typ entity.VoucherType) (string, error)
	// Create persiste la cabecera y asigna Seq (orden de creación).
	// Un número duplicado en (empresa, tipo) devuelve ConstraintViolation.
	Create(ctx context.Context, voucher *entity.Voucher) error
	CreateLine(ctx context.Context, line *entity.VoucherLineItem) error
	GetByID(ctx context.Context, id string) (*entity.Voucher, error)
	GetLines(ctx context.Context, voucherID string) ([]entity.VoucherLineItem, error)
	List(ctx context.Context, filter VoucherFilter) ([]entity.Voucher, error)
	CountByParty(ctx context.Context, partyID string) (int, error)
	// ListPostings devuelve todas las líneas de la empresa con el tipo de su comprobante.
	ListPostings(ctx context.Context, companyID string) ([]stock.Posting, error)
}
