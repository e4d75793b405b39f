package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	Rate         decimal.Decimal `json:"rate"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// UpdateItemRequest body para PUT /api/items/:id. El stock actual nunca se edita directamente.
type UpdateItemRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	Rate         decimal.Decimal `json:"rate"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// ItemResponse artículo en respuestas. LowStock se calcula al leer.
type ItemResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Unit         string          `json:"unit"`
	Rate         decimal.Decimal `json:"rate"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// StockDriftResponse diferencia entre el stock guardado y el recalculado desde las líneas.
type StockDriftResponse struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Stored   decimal.Decimal `json:"stored"`
	Expected decimal.Decimal `json:"expected"`
}

// LowStockItemResponse artículo en o bajo su punto de reorden con la cantidad sugerida a pedir.
type LowStockItemResponse struct {
	ItemResponse
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
}
