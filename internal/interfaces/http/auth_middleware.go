package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
	"github.com/WMASewwandi/clovesis-sub003/pkg/jwt"
)

// Locals keys para el token y el usuario en Fiber.
const (
	LocalToken  = "bearer_token"
	LocalUserID = "user_id"
)

// AuthConfig secreto y emisor para verificar el token. Con Secret vacío el token solo se
// exige y se reenvía al CRM, que es quien lo valida.
type AuthConfig struct {
	Secret string
	Issuer string
}

// AuthMiddleware exige el Bearer Token, lo verifica si hay secreto y lo deja en c.Locals.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
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
		if cfg.Secret != "" {
			claims, err := jwt.Parse(cfg.Secret, cfg.Issuer, tokenString)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			c.Locals(LocalUserID, claims.UserID)
		}
		c.Locals(LocalToken, tokenString)
		return c.Next()
	}
}

// GetToken devuelve el token crudo (después del middleware de auth).
func GetToken(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalToken).(string)
	return s
}

// GetUserID devuelve el UserID del token verificado; vacío si no hay secreto configurado.
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
