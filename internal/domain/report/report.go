// Package report agrupa comprobantes por período para los reportes resumidos.
package report

import (
	"fmt"
	"time"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TimeFrame es la granularidad del reporte.
type TimeFrame string

const (
	Daily   TimeFrame = "daily"
	Weekly  TimeFrame = "weekly"
	Monthly TimeFrame = "monthly"
	Yearly  TimeFrame = "yearly"
)

// ParseTimeFrame valida la granularidad recibida como texto.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch TimeFrame(s) {
	case Daily, Weekly, Monthly, Yearly:
		return TimeFrame(s), nil
	}
	return "", fmt.Errorf("período desconocido %q", s)
}

// WindowStart devuelve la fecha desde la que se consultan comprobantes para el período:
// 30 días, 84 días, 12 meses o 5 años antes de now.
func (f TimeFrame) WindowStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch f {
	case Daily:
		return day.AddDate(0, 0, -30)
	case Weekly:
		return day.AddDate(0, 0, -84)
	case Monthly:
		return day.AddDate(0, -12, 0)
	default:
		return day.AddDate(-5, 0, 0)
	}
}

// Label devuelve la etiqueta del bucket al que pertenece la fecha.
func (f TimeFrame) Label(d time.Time) string {
	switch f {
	case Daily:
		return d.Format("Jan 2")
	case Weekly:
		return fmt.Sprintf("Week %d", (d.Day()+6)/7)
	case Monthly:
		return d.Format("Jan 2006")
	default:
		return d.Format("2006")
	}
}

// Totals acumula importes por tipo de comprobante.
type Totals struct {
	Sales     decimal.Decimal
	Purchases decimal.Decimal
	Receipts  decimal.Decimal
	Payments  decimal.Decimal
}

// NewTotals devuelve totales en cero.
func NewTotals() Totals {
	return Totals{Sales: decimal.Zero, Purchases: decimal.Zero, Receipts: decimal.Zero, Payments: decimal.Zero}
}

// Add suma el importe al tipo correspondiente.
func (t *Totals) Add(typ entity.VoucherType, amount decimal.Decimal) {
	switch typ {
	case entity.VoucherSales:
		t.Sales = t.Sales.Add(amount)
	case entity.VoucherPurchase:
		t.Purchases = t.Purchases.Add(amount)
	case entity.VoucherReceipt:
		t.Receipts = t.Receipts.Add(amount)
	case entity.VoucherPayment:
		t.Payments = t.Payments.Add(amount)
	}
}

// Of devuelve el total de un tipo.
func (t Totals) Of(typ entity.VoucherType) decimal.Decimal {
	switch typ {
	case entity.VoucherSales:
		return t.Sales
	case entity.VoucherPurchase:
		return t.Purchases
	case entity.VoucherReceipt:
		return t.Receipts
	default:
		return t.Payments
	}
}

// Bucket es un período del reporte con sus totales.
type Bucket struct {
	Label string
	Totals
}

// Report es el resultado de Aggregate: buckets en orden de aparición y el total general.
type Report struct {
	Frame   TimeFrame
	Buckets []Bucket
	Overall Totals
}

// Aggregate agrupa los comprobantes (en orden cronológico ascendente) por la etiqueta del período.
// El orden de los buckets es el de primera aparición en la entrada.
func Aggregate(vouchers []entity.Voucher, frame TimeFrame) Report {
	r := Report{Frame: frame, Buckets: []Bucket{}, Overall: NewTotals()}
	index := make(map[string]int)
	for _, v := range vouchers {
		label := frame.Label(v.Date)
		i, ok := index[label]
		if !ok {
			i = len(r.Buckets)
			index[label] = i
			r.Buckets = append(r.Buckets, Bucket{Label: label, Totals: NewTotals()})
		}
		r.Buckets[i].Add(v.Type, v.Amount)
		r.Overall.Add(v.Type, v.Amount)
	}
	return r
}
