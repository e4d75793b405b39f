package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/application/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/application/usecase"
)

// PartyHandler maneja clientes y proveedores, y el libro de cada uno.
type PartyHandler struct {
	uc     *usecase.PartyUseCase
	ledger *ledger.LedgerUseCase
}

// NewPartyHandler construye el handler.
func NewPartyHandler(uc *usecase.PartyUseCase, ledgerUC *ledger.LedgerUseCase) *PartyHandler {
	return &PartyHandler{uc: uc, ledger: ledgerUC}
}

// Create godoc
// @Summary      Crear tercero
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Datos del tercero"
// @Success      201   {object}  dto.PartyResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/parties [post]
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar terceros
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        role    query  string  false  "customer | supplier"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.PartyListResponse
// @Router       /api/parties [get]
func (h *PartyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), c.Query("role"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener tercero
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del tercero"
// @Success      200  {object}  dto.PartyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parties/{id} [get]
func (h *PartyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tercero
// @Description  El saldo inicial no se puede cambiar si el tercero ya tiene comprobantes.
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del tercero"
// @Param        body  body  dto.UpdatePartyRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.PartyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/parties/{id} [put]
func (h *PartyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar tercero sin comprobantes
// @Tags         parties
// @Security     Bearer
// @Param        id   path  string  true  "ID del tercero"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/parties/{id} [delete]
func (h *PartyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Ledger godoc
// @Summary      Libro del tercero
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del tercero"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parties/{id}/ledger [get]
func (h *PartyHandler) Ledger(c *fiber.Ctx) error {
	out, err := h.ledger.GetLedger(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Balance godoc
// @Summary      Saldo actual del tercero
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del tercero"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/parties/{id}/balance [get]
func (h *PartyHandler) Balance(c *fiber.Ctx) error {
	out, err := h.ledger.GetBalance(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// pageFromQuery lee limit/offset; la normalización la hace el caso de uso.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
}
