package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/report"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

// LowStockCounter cuenta artículos bajo reorden (lo implementa inventory.ItemUseCase).
type LowStockCounter interface {
	CountLowStock(ctx context.Context, companyID string) (int, error)
}

// DashboardUseCase genera el resumen del día: totales por tipo y artículos bajo reorden.
type DashboardUseCase struct {
	voucherRepo repository.VoucherRepository
	lowStock    LowStockCounter
	loc         *time.Location
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(voucherRepo repository.VoucherRepository, lowStock LowStockCounter, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{voucherRepo: voucherRepo, lowStock: lowStock, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardResponse. Las dos consultas corren en paralelo;
// la primera que falla cancela la otra.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardResponse, error) {
	today := calendarDate(uc.now().In(uc.loc))

	var (
		vouchers []entity.Voucher
		lowCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vouchers, err = uc.voucherRepo.List(gctx, repository.VoucherFilter{
			CompanyID: companyID,
			From:      &today,
			To:        &today,
			Ascending: true,
		})
		return err
	})
	g.Go(func() error {
		var err error
		lowCount, err = uc.lowStock.CountLowStock(gctx, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := report.NewTotals()
	for _, v := range vouchers {
		totals.Add(v.Type, v.Amount)
	}
	return &dto.DashboardResponse{
		Date:          today.Format("2006-01-02"),
		Today:         toTotalsDTO(totals),
		LowStockItems: lowCount,
	}, nil
}
