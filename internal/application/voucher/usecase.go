package voucher

import (
	"time"

	"github.com/jhoicas/ledgerbook-api/internal/domain/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/jhoicas/ledgerbook-api/internal/domain/stock"
	"github.com/jhoicas/ledgerbook-api/pkg/logger"
)

// Options reglas configurables del libro y reloj (inyectable en tests).
type Options struct {
	Guard    ledger.Guard
	Stock    stock.Policy
	Location *time.Location // zona de "hoy" cuando el comprobante no trae fecha
	Now      func() time.Time
}

// VoucherUseCase crea y consulta comprobantes.
type VoucherUseCase struct {
	tx          TxRunner
	partyRepo   repository.PartyRepository
	itemRepo    repository.ItemRepository
	voucherRepo repository.VoucherRepository
	guard       ledger.Guard
	policy      stock.Policy
	loc         *time.Location
	now         func() time.Time
	log         *logger.Logger
}

// NewVoucherUseCase construye el caso de uso. Los repos sueltos se usan para lecturas;
// toda escritura pasa por tx.
func NewVoucherUseCase(
	tx TxRunner,
	partyRepo repository.PartyRepository,
	itemRepo repository.ItemRepository,
	voucherRepo repository.VoucherRepository,
	opts Options,
	log *logger.Logger,
) *VoucherUseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &VoucherUseCase{
		tx:          tx,
		partyRepo:   partyRepo,
		itemRepo:    itemRepo,
		voucherRepo: voucherRepo,
		guard:       opts.Guard,
		policy:      opts.Stock,
		loc:         opts.Location,
		now:         opts.Now,
		log:         log.Component("voucher"),
	}
}

// today devuelve la fecha calendario actual en la zona configurada, normalizada a medianoche UTC.
func (uc *VoucherUseCase) today() time.Time {
	n := uc.now().In(uc.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
