package inventory

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain/stock"
)

// Reconcile recalcula el stock de cada artículo desde las líneas contabilizadas
// (inicial + compras − ventas) y devuelve los que no coinciden con el guardado.
func (uc *ItemUseCase) Reconcile(ctx context.Context, companyID string) ([]dto.StockDriftResponse, error) {
	items, err := uc.allItems(ctx, companyID)
	if err != nil {
		return nil, err
	}
	postings, err := uc.voucherRepo.ListPostings(ctx, companyID)
	if err != nil {
		return nil, err
	}
	drift := make([]dto.StockDriftResponse, 0)
	for _, it := range items {
		expected := stock.Expected(it.OpeningStock, it.ID, postings)
		if expected.Equal(it.CurrentStock) {
			continue
		}
		uc.log.For(ctx).Warn().
			Str("company_id", companyID).
			Str("item_id", it.ID).
			Str("stored", it.CurrentStock.String()).
			Str("expected", expected.String()).
			Msg("stock no coincide con las líneas contabilizadas")
		drift = append(drift, dto.StockDriftResponse{
			ItemID:   it.ID,
			Name:     it.Name,
			Stored:   it.CurrentStock,
			Expected: expected,
		})
	}
	return drift, nil
}
