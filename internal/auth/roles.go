package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// RequireAdmin ensures the authenticated identity carries the admin role.
// Runs after Handle, so the 403 fires before any existence check: a non-admin
// probing complaint ids never learns whether a record exists.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("Authentication required")
		}
		if !identity.IsAdmin() {
			return apperrors.NewForbidden("Admin access required")
		}
		return c.Next()
	}
}
