package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/curemart/internal/config"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/storage"
	"github.com/example/curemart/internal/utils"
)

const (
	principalIDKey   = "currentPrincipalID"
	principalRoleKey = "currentPrincipalRole"
)

// Auth validates JWT tokens and loads the authenticated principal ID and
// role into context. Role restrictions are applied by the Require* guards.
func Auth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		id, role, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(principalIDKey, id)
		c.Locals(principalRoleKey, role)
		return c.Next()
	}
}

// OptionalAuth loads the principal when a valid token is present but never
// rejects the request. Used on routes that serve guests too.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if id, role, err := utils.ParseToken(cfg.JWTSecret, parts[1]); err == nil {
				c.Locals(principalIDKey, id)
				c.Locals(principalRoleKey, role)
			}
		}
		return c.Next()
	}
}

// CurrentPrincipal extracts the authenticated principal from context.
func CurrentPrincipal(c *fiber.Ctx) (uuid.UUID, string, bool) {
	id, ok := c.Locals(principalIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := c.Locals(principalRoleKey).(string)
	if !ok {
		return uuid.Nil, "", false
	}
	return id, role, true
}

// RequireRole rejects principals whose token role does not match.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, got, ok := CurrentPrincipal(c)
		if !ok || got != role {
			return fiber.NewError(fiber.StatusForbidden, "insufficient privileges")
		}
		return c.Next()
	}
}

// RequirePermission rejects admins whose permission set lacks the given key.
// Must run after Auth and RequireRole(RoleAdmin).
func RequirePermission(store storage.Store, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, role, ok := CurrentPrincipal(c)
		if !ok || role != utils.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "insufficient privileges")
		}

		admin, err := store.Admins().FindByID(c.Context(), id.String())
		if err != nil {
			return fiber.NewError(fiber.StatusForbidden, "insufficient privileges")
		}
		if admin.Role != models.AdminRoleSuper && !admin.Permissions.Has(permission) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient privileges")
		}
		return c.Next()
	}
}
