package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/application/voucher"
)

// VoucherHandler maneja la emisión y consulta de comprobantes.
type VoucherHandler struct {
	uc *voucher.VoucherUseCase
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(uc *voucher.VoucherUseCase) *VoucherHandler {
	return &VoucherHandler{uc: uc}
}

// NextNumber godoc
// @Summary      Vista previa del próximo número
// @Description  No reserva el número: la creación lo asigna en el servidor.
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  true  "sales | purchase | receipt | payment"
// @Success      200   {object}  dto.NextNumberResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/vouchers/next-number [get]
func (h *VoucherHandler) NextNumber(c *fiber.Ctx) error {
	out, err := h.uc.NextNumber(c.UserContext(), GetCompanyID(c), c.Query("type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Emitir comprobante
// @Description  Asigna número, aplica el guard de saldo y mueve stock en una sola transacción.
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVoucherRequest  true  "Comprobante"
// @Success      201   {object}  dto.VoucherResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/vouchers [post]
func (h *VoucherHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVoucherRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar comprobantes (más recientes primero)
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        type      query  string  false  "Tipo"
// @Param        party_id  query  string  false  "Tercero"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.VoucherListResponse
// @Router       /api/vouchers [get]
func (h *VoucherHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), voucher.ListFilter{
		Type:        c.Query("type"),
		PartyID:     c.Query("party_id"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		PageRequest: pageFromQuery(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener comprobante con sus líneas
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id} [get]
func (h *VoucherHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
