package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"likebike-server/utils"
)

func tokenFromHeader(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func setUserLocals(c *fiber.Ctx, claims *utils.TokenClaims) {
	c.Locals("user_id", claims.UserID)
	c.Locals("username", claims.Username)
	c.Locals("email", claims.Email)
	c.Locals("is_admin", claims.IsAdmin)
}

// RequireAuth verifies the Bearer token and stores the identity claims
// in the request locals. Fails closed on any verification problem.
func RequireAuth(issuer *utils.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromHeader(c)
		if token == "" {
			return utils.RespondError(c, fiber.StatusUnauthorized, "authorization token required")
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			return utils.RespondError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		setUserLocals(c, claims)
		return c.Next()
	}
}

// RequireAdmin demands two independent admin signals: the X-Admin header
// and the token's embedded admin claim. Neither alone is trusted.
func RequireAdmin(issuer *utils.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromHeader(c)
		if token == "" {
			return utils.RespondError(c, fiber.StatusUnauthorized, "authorization token required")
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			return utils.RespondError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		if c.Get("X-Admin") != "true" {
			return utils.RespondError(c, fiber.StatusForbidden, "admin access required")
		}

		if !claims.IsAdmin {
			return utils.RespondError(c, fiber.StatusForbidden, "admin privileges required")
		}

		setUserLocals(c, claims)
		return c.Next()
	}
}

// CurrentUserID reads the authenticated user's id set by RequireAuth.
func CurrentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("user_id").(uint); ok {
		return id
	}
	return 0
}
