package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/ledgerbook-api/internal/application/analytics"
)

// DashboardHandler maneja el resumen del día.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los totales del día por tipo de comprobante y la cantidad de
// artículos bajo reorden.
// GET /api/dashboard
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
