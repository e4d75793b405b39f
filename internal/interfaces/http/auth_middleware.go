package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/pkg/jwt"
)

// Locals keys que deja AuthMiddleware en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalTokenID   = "token_id"
	LocalTokenExp  = "token_exp"
)

// RevocationChecker informa si un token fue revocado por logout (lo implementa auth.RevocationList).
type RevocationChecker interface {
	IsRevoked(jti string) bool
}

// TokenParser valida un token de sesión (lo implementa jwt.Manager).
type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

// AuthMiddleware valida el Bearer Token JWT y extrae UserID, CompanyID y el jti a c.Locals.
// revoked puede ser nil (sin logout).
func AuthMiddleware(tokens TokenParser, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := tokens.Parse(tokenString)
		if errors.Is(err, jwt.ErrExpired) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "la sesión expiró"})
		}
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
		}
		if revoked != nil && revoked.IsRevoked(claims.ID) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "REVOKED_TOKEN", Message: "la sesión fue cerrada"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalCompanyID, claims.CompanyID)
		c.Locals(LocalTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals(LocalTokenExp, claims.ExpiresAt.Time)
		}
		return c.Next()
	}
}

// RequireCompany rechaza con 403 los tokens emitidos antes del setup de empresa.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetCompanyID(c) == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "COMPANY_REQUIRED",
				Message: "complete el setup de empresa antes de continuar",
			})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}

// GetTokenID devuelve el jti del token actual.
func GetTokenID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalTokenID).(string)
	return s
}

// GetTokenExpiry devuelve la expiración del token actual (cero si no la trae).
func GetTokenExpiry(c *fiber.Ctx) time.Time {
	t, _ := c.Locals(LocalTokenExp).(time.Time)
	return t
}
