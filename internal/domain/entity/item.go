package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo de inventario.
// CurrentStock es estado derivado: solo lo modifican las líneas de comprobantes de venta y compra.
type Item struct {
	ID           string
	CompanyID    string
	Name         string
	Description  string
	Unit         string
	Rate         decimal.Decimal // precio unitario
	OpeningStock decimal.Decimal
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
