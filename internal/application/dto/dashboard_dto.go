package dto

// DashboardResponse respuesta de GET /api/dashboard.
// Today suma los comprobantes con fecha de hoy en la zona de reportes.
type DashboardResponse struct {
	Date          string    `json:"date"`
	Today         TotalsDTO `json:"today"`
	LowStockItems int       `json:"low_stock_items"`
}
