// Package stock aplica las líneas de comprobantes al inventario (servicio de dominio).
package stock

import (
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Delta devuelve la variación de stock de una línea: compras suman, ventas restan,
// recibos y pagos no mueven inventario.
func Delta(t entity.VoucherType, quantity decimal.Decimal) decimal.Decimal {
	switch t {
	case entity.VoucherPurchase:
		return quantity
	case entity.VoucherSales:
		return quantity.Neg()
	}
	return decimal.Zero
}

// Policy controla si se permite vender por encima del stock disponible.
type Policy struct {
	AllowNegative bool
}

// ApplyLineItems calcula el stock resultante de cada artículo tras aplicar las líneas.
// current trae el stock vigente por ItemID; el mapa devuelto es nuevo (current no se modifica).
// Con AllowNegative=false una venta que deja stock negativo falla con ConstraintViolation.
func (p Policy) ApplyLineItems(t entity.VoucherType, current map[string]decimal.Decimal, lines []entity.VoucherLineItem) (map[string]decimal.Decimal, error) {
	updated := make(map[string]decimal.Decimal, len(current))
	for id, q := range current {
		updated[id] = q
	}
	if !t.MovesStock() {
		return updated, nil
	}
	for _, l := range lines {
		q, ok := updated[l.ItemID]
		if !ok {
			return nil, domain.NotFound("artículo " + l.ItemID)
		}
		q = q.Add(Delta(t, l.Quantity))
		if q.IsNegative() && !p.AllowNegative {
			return nil, domain.Constraint("stock insuficiente para el artículo %s", l.ItemID)
		}
		updated[l.ItemID] = q
	}
	return updated, nil
}

// IsLowStock indica si el artículo está en o por debajo de su punto de reorden.
func IsLowStock(item *entity.Item) bool {
	return item.CurrentStock.LessThanOrEqual(item.ReorderLevel)
}

// Posting es una línea ya contabilizada junto con el tipo de su comprobante.
type Posting struct {
	Type     entity.VoucherType
	ItemID   string
	Quantity decimal.Decimal
}

// Expected recalcula el stock de un artículo desde cero:
// stock inicial + Σ compras − Σ ventas.
func Expected(opening decimal.Decimal, itemID string, postings []Posting) decimal.Decimal {
	q := opening
	for _, p := range postings {
		if p.ItemID != itemID {
			continue
		}
		q = q.Add(Delta(p.Type, p.Quantity))
	}
	return q
}
