package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType es el tipo de comprobante. Conjunto cerrado de cuatro valores.
type VoucherType string

const (
	VoucherSales    VoucherType = "sales"
	VoucherPurchase VoucherType = "purchase"
	VoucherReceipt  VoucherType = "receipt"
	VoucherPayment  VoucherType = "payment"
)

// VoucherTypes en orden canónico (reportes, tablas de prueba).
var VoucherTypes = []VoucherType{VoucherSales, VoucherPurchase, VoucherReceipt, VoucherPayment}

// ParseVoucherType valida un tipo recibido como texto.
func ParseVoucherType(s string) (VoucherType, error) {
	switch VoucherType(s) {
	case VoucherSales, VoucherPurchase, VoucherReceipt, VoucherPayment:
		return VoucherType(s), nil
	}
	return "", fmt.Errorf("tipo de comprobante desconocido %q", s)
}

// PartyRole devuelve el rol de tercero contra el que se emite este tipo de comprobante.
func (t VoucherType) PartyRole() PartyRole {
	if t == VoucherSales || t == VoucherReceipt {
		return RoleCustomer
	}
	return RoleSupplier
}

// MovesStock indica si el tipo admite líneas de artículos (ventas y compras).
func (t VoucherType) MovesStock() bool {
	return t == VoucherSales || t == VoucherPurchase
}

// Voucher representa un comprobante contable. Inmutable una vez creado.
// Seq es el orden de creación; desempata comprobantes con la misma fecha.
type Voucher struct {
	ID            string
	CompanyID     string
	UserID        string
	PartyID       string
	Type          VoucherType
	VoucherNumber string
	Date          time.Time
	Amount        decimal.Decimal
	Narration     string
	Seq           int64
	CreatedAt     time.Time
}

// VoucherLineItem es una línea de artículo de un comprobante de venta o compra.
type VoucherLineItem struct {
	ID        string
	VoucherID string
	ItemID    string
	Quantity  decimal.Decimal
	Rate      decimal.Decimal
	Amount    decimal.Decimal // Quantity × Rate
}

// Decimales que admite el almacenamiento para importes y cantidades.
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 4
)

// FitsScale indica si d se guarda con places decimales sin redondear.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// LineTotal suma los importes de las líneas.
func LineTotal(lines []VoucherLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
