package middleware

import (
	"context"
	"strings"

	"sonic/internal/auth"
	"sonic/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals written by AuthRequired.
const (
	LocalUserID = "userID"
	LocalRole   = "userRole"
	LocalClaims = "claims"
)

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// AuthRequired enforces a valid bearer token and stores the caller identity
// in Fiber locals and the request context.
func AuthRequired(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return models.NewUnauthorizedError("auth.missing_token", "Authorization header required.")
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return models.NewUnauthorizedError("auth.invalid_header", "Invalid authorization header format.")
		}

		claims, err := parser.Parse(token)
		if err != nil {
			return &models.AppError{
				Status:  fiber.StatusUnauthorized,
				Code:    "auth.invalid_token",
				Message: "Invalid or expired token.",
				Err:     err,
			}
		}

		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalClaims, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.Subject))

		return c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUserID(c) == "" {
			return models.NewUnauthorizedError("auth.missing_sub", "User id claim is missing.")
		}
		if !IsAdmin(c) {
			return models.NewForbiddenError("auth.admin_required", "Admin role required.")
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user id or "".
func CurrentUserID(c *fiber.Ctx) string {
	uid, _ := c.Locals(LocalUserID).(string)
	return uid
}

// IsAdmin reports whether the authenticated caller holds the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(LocalRole).(string)
	return role == string(models.RoleAdmin)
}
