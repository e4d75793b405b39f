package dto

import "github.com/shopspring/decimal"

// LedgerResponse libro de un tercero para GET /api/parties/:id/ledger.
type LedgerResponse struct {
	PartyID         string                `json:"party_id"`
	PartyName       string                `json:"party_name"`
	Role            string                `json:"role"`
	OpeningBalance  decimal.Decimal       `json:"opening_balance"`
	Entries         []LedgerEntryResponse `json:"entries"`
	TotalDebit      decimal.Decimal       `json:"total_debit"`
	TotalCredit     decimal.Decimal       `json:"total_credit"`
	ClosingBalance  decimal.Decimal       `json:"closing_balance"`
	Inconsistencies []InconsistentVoucher `json:"inconsistencies,omitempty"`
}

// LedgerEntryResponse fila del libro.
type LedgerEntryResponse struct {
	Date          string          `json:"date"`
	VoucherNumber string          `json:"voucher_number"`
	Type          string          `json:"type"`
	Narration     string          `json:"narration,omitempty"`
	Opening       decimal.Decimal `json:"opening"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

// InconsistentVoucher comprobante excluido del saldo por no coincidir con el rol del tercero.
type InconsistentVoucher struct {
	VoucherID     string `json:"voucher_id"`
	VoucherNumber string `json:"voucher_number"`
	Type          string `json:"type"`
}

// BalanceResponse saldo actual de un tercero.
type BalanceResponse struct {
	PartyID string          `json:"party_id"`
	Role    string          `json:"role"`
	Balance decimal.Decimal `json:"balance"`
}
