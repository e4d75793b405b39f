package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVoucherRequest body para POST /api/vouchers.
// El número de comprobante siempre lo asigna el servidor.
// Date en formato YYYY-MM-DD; vacío = hoy.
// Amount puede omitirse cuando hay líneas: se toma la suma de las líneas.
type CreateVoucherRequest struct {
	Type      string               `json:"type" validate:"required,oneof=sales purchase receipt payment"`
	PartyID   string               `json:"party_id" validate:"required"`
	Date      string               `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amount    decimal.Decimal      `json:"amount"`
	Narration string               `json:"narration,omitempty" validate:"omitempty,max=1000"`
	Lines     []VoucherLineRequest `json:"lines,omitempty" validate:"dive"`
}

// VoucherLineRequest línea de artículo (solo ventas y compras).
// Rate en cero toma la tarifa del artículo.
type VoucherLineRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
}

// VoucherResponse comprobante con sus líneas.
type VoucherResponse struct {
	ID            string                `json:"id"`
	CompanyID     string                `json:"company_id"`
	PartyID       string                `json:"party_id"`
	PartyName     string                `json:"party_name,omitempty"`
	Type          string                `json:"type"`
	VoucherNumber string                `json:"voucher_number"`
	Date          string                `json:"date"`
	Amount        decimal.Decimal       `json:"amount"`
	Narration     string                `json:"narration,omitempty"`
	Lines         []VoucherLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// VoucherLineResponse línea en la respuesta.
type VoucherLineResponse struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// NextNumberResponse vista previa del siguiente número (no lo reserva).
type NextNumberResponse struct {
	Type          string `json:"type"`
	VoucherNumber string `json:"voucher_number"`
}

// VoucherListResponse lista paginada de comprobantes.
type VoucherListResponse struct {
	Items []VoucherResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
