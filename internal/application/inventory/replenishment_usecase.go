package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// idealStockFactor define el stock objetivo al reponer: 1.5 × punto de reorden.
var idealStockFactor = decimal.NewFromFloat(1.5)

// LowStock devuelve los artículos en o bajo su punto de reorden, con la cantidad sugerida
// para volver al stock objetivo. Ordena por faltante descendente.
func (uc *ItemUseCase) LowStock(ctx context.Context, companyID string) ([]dto.LowStockItemResponse, error) {
	items, err := uc.allItems(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemResponse, 0)
	for _, it := range items {
		if !stock.IsLowStock(it) {
			continue
		}
		suggested := it.ReorderLevel.Mul(idealStockFactor).Sub(it.CurrentStock)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		out = append(out, dto.LowStockItemResponse{ItemResponse: *ToItemResponse(it), SuggestedQty: suggested})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SuggestedQty.GreaterThan(out[j].SuggestedQty)
	})
	return out, nil
}

// CountLowStock cuenta los artículos bajo reorden (widget del dashboard).
func (uc *ItemUseCase) CountLowStock(ctx context.Context, companyID string) (int, error) {
	items, err := uc.allItems(ctx, companyID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		if stock.IsLowStock(it) {
			n++
		}
	}
	return n, nil
}

// allItems recorre todas las páginas de artículos de la empresa.
func (uc *ItemUseCase) allItems(ctx context.Context, companyID string) ([]*entity.Item, error) {
	const pageSize = 500
	var all []*entity.Item
	for offset := 0; ; offset += pageSize {
		page, err := uc.repo.ListByCompany(ctx, companyID, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}
