package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry es una fila derivada del libro de un tercero. Nunca se persiste.
type LedgerEntry struct {
	VoucherID     string
	Date          time.Time
	VoucherNumber string
	Type          VoucherType
	Narration     string
	Opening       decimal.Decimal
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Balance       decimal.Decimal
}
