package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/ledgerbook-api/internal/application/analytics"
)

// ReportHandler maneja los reportes resumidos por período.
type ReportHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen por período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        frame            query   string  false  "daily | weekly | monthly | yearly"  default(monthly)
// @Param        Accept-Language  header  string  false  "idioma de la distribución (en, es)"
// @Success      200    {object}  dto.ReportSummaryResponse
// @Failure      422    {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetCompanyID(c), c.Query("frame"), c.Get(fiber.HeaderAcceptLanguage))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
