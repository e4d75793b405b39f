package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
)

// statusByKind traduce el Kind de dominio a status HTTP y código de error.
var statusByKind = map[domain.Kind]struct {
	status int
	code   string
}{
	domain.KindValidation:         {fiber.StatusUnprocessableEntity, "VALIDATION"},
	domain.KindConstraint:         {fiber.StatusConflict, "CONSTRAINT_VIOLATION"},
	domain.KindNotFound:           {fiber.StatusNotFound, "NOT_FOUND"},
	domain.KindStorageUnavailable: {fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
	domain.KindUnauthorized:       {fiber.StatusUnauthorized, "UNAUTHORIZED"},
	domain.KindForbidden:          {fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError responde con el status correspondiente al error de dominio.
// Un error sin Kind es un fallo interno y su detalle no se expone.
func writeError(c *fiber.Ctx, err error) error {
	m, ok := statusByKind[domain.KindOf(err)]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	msg := err.Error()
	if domain.KindOf(err) == domain.KindStorageUnavailable {
		msg = "almacenamiento no disponible, intente de nuevo"
	}
	return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg, Fields: domain.FieldsOf(err)})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
