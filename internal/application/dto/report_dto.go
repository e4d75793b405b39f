package dto

import "github.com/shopspring/decimal"

// TotalsDTO importes por tipo de comprobante.
type TotalsDTO struct {
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
	Receipts  decimal.Decimal `json:"receipts"`
	Payments  decimal.Decimal `json:"payments"`
}

// BucketDTO un período del reporte.
type BucketDTO struct {
	Label string `json:"label"`
	TotalsDTO
}

// SeriesPointDTO porción de la distribución total por tipo.
type SeriesPointDTO struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// ReportSummaryResponse respuesta de GET /api/reports/summary.
type ReportSummaryResponse struct {
	Frame        string           `json:"frame"`
	From         string           `json:"from"`
	Buckets      []BucketDTO      `json:"buckets"`
	Totals       TotalsDTO        `json:"totals"`
	Distribution []SeriesPointDTO `json:"distribution"`
}
