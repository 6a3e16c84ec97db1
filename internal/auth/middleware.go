package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

const identityKey = "auth_identity"

// SessionCookieName is the http-only cookie carrying the session token.
const SessionCookieName = "auth-token"

// AuthMiddleware validates session tokens. Token validity is entirely a
// function of signature and expiry; the user store is never consulted here.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := extractToken(c)
	if !ok {
		return apperrors.NewUnauthenticated("Authentication required")
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return apperrors.NewUnauthenticated("Authentication required")
	}

	c.Locals(identityKey, claims.Identity())
	return c.Next()
}

// extractToken consults the Authorization header first and falls back to the
// session cookie. Exactly one source is used per request, first match wins.
func extractToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1], true
		}
		return "", false
	}

	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie, true
	}
	return "", false
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}
