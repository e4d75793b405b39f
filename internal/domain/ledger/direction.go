// Package ledger contiene la proyección del libro por tercero y la validación de saldo
// (servicios de dominio puros, sin acceso a datos).
package ledger

import "github.com/jhoicas/ledgerbook-api/internal/domain/entity"

// Side indica en qué columna del libro cae el importe de un comprobante.
type Side int

const (
	// SideNone: el comprobante no corresponde al rol del tercero; no afecta el saldo.
	SideNone Side = iota
	SideDebit
	SideCredit
)

// Effect describe cómo un comprobante mueve el saldo de un tercero.
type Effect struct {
	Side Side
	Sign int // +1 suma al saldo, -1 resta
}

type directionKey struct {
	role entity.PartyRole
	typ  entity.VoucherType
}

// directions es la única fuente de verdad de la dirección débito/crédito.
var directions = map[directionKey]Effect{
	{entity.RoleCustomer, entity.VoucherSales}:    {Side: SideDebit, Sign: +1},
	{entity.RoleCustomer, entity.VoucherReceipt}:  {Side: SideCredit, Sign: -1},
	{entity.RoleSupplier, entity.VoucherPurchase}: {Side: SideCredit, Sign: +1},
	{entity.RoleSupplier, entity.VoucherPayment}:  {Side: SideDebit, Sign: -1},
}

// Direction devuelve el efecto de un tipo de comprobante sobre un tercero con el rol dado.
// ok es false para combinaciones que no deberían existir (ej. venta contra proveedor).
func Direction(role entity.PartyRole, typ entity.VoucherType) (Effect, bool) {
	e, ok := directions[directionKey{role, typ}]
	return e, ok
}
