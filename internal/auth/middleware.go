package auth

import (
	"strings"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
	CtxBranchIDKey = "branch_id"
)

func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Falta la cabecera Authorization")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "El formato de Authorization debe ser 'Bearer <token>'")
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o expirado")
		}
		if claims.Role == models.RoleBranchAdmin && claims.BranchID == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "El token de sucursal no trae branch_id")
		}

		SetActor(c, Actor{UserID: claims.UserID, Role: claims.Role, BranchID: claims.BranchID})
		return c.Next()
	}
}

func SetActor(c *fiber.Ctx, a Actor) {
	c.Locals(CtxUserIDKey, a.UserID)
	c.Locals(CtxUserRoleKey, a.Role)
	c.Locals(CtxBranchIDKey, a.BranchID)
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "No se pudo leer el rol")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "No tienes permiso para esta operación")
	}
}
