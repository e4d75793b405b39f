package ledger

import (
	"sort"

	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Inconsistency registra un comprobante excluido de la proyección por no coincidir con el rol.
type Inconsistency struct {
	VoucherID     string
	VoucherNumber string
	Type          entity.VoucherType
	Role          entity.PartyRole
}

// Projection es el libro de un tercero: saldo inicial, filas y saldo final.
type Projection struct {
	Opening         decimal.Decimal
	Entries         []entity.LedgerEntry
	Closing         decimal.Decimal
	TotalDebit      decimal.Decimal
	TotalCredit     decimal.Decimal
	Inconsistencies []Inconsistency
}

// SortVouchers ordena por fecha ascendente y, a igual fecha, por orden de creación.
func SortVouchers(vouchers []entity.Voucher) {
	sort.SliceStable(vouchers, func(i, j int) bool {
		a, b := vouchers[i], vouchers[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Seq < b.Seq
	})
}

// Project recorre los comprobantes (ya ordenados con SortVouchers) y produce el libro.
// Es una función pura: las mismas entradas producen siempre la misma salida.
func Project(role entity.PartyRole, opening decimal.Decimal, vouchers []entity.Voucher) Projection {
	p := Projection{
		Opening:     opening,
		Entries:     make([]entity.LedgerEntry, 0, len(vouchers)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	balance := opening
	for _, v := range vouchers {
		eff, ok := Direction(role, v.Type)
		if !ok {
			p.Inconsistencies = append(p.Inconsistencies, Inconsistency{
				VoucherID:     v.ID,
				VoucherNumber: v.VoucherNumber,
				Type:          v.Type,
				Role:          role,
			})
			continue
		}
		entry := entity.LedgerEntry{
			VoucherID:     v.ID,
			Date:          v.Date,
			VoucherNumber: v.VoucherNumber,
			Type:          v.Type,
			Narration:     v.Narration,
			Opening:       balance,
			Debit:         decimal.Zero,
			Credit:        decimal.Zero,
		}
		if eff.Side == SideDebit {
			entry.Debit = v.Amount
			p.TotalDebit = p.TotalDebit.Add(v.Amount)
		} else {
			entry.Credit = v.Amount
			p.TotalCredit = p.TotalCredit.Add(v.Amount)
		}
		if eff.Sign > 0 {
			balance = balance.Add(v.Amount)
		} else {
			balance = balance.Sub(v.Amount)
		}
		entry.Balance = balance
		p.Entries = append(p.Entries, entry)
	}
	p.Closing = balance
	return p
}

// Balance calcula solo el saldo final. La suma es conmutativa, no requiere orden.
func Balance(role entity.PartyRole, opening decimal.Decimal, vouchers []entity.Voucher) decimal.Decimal {
	balance := opening
	for _, v := range vouchers {
		eff, ok := Direction(role, v.Type)
		if !ok {
			continue
		}
		if eff.Sign > 0 {
			balance = balance.Add(v.Amount)
		} else {
			balance = balance.Sub(v.Amount)
		}
	}
	return balance
}
