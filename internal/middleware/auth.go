// Package middleware provides the fiber middleware for token
// authentication and role gating.
package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
)

const identityKey = "identity"

// Auth authenticates requests from the Authorization header.
type Auth struct {
	secret string
}

// NewAuth creates auth middleware that verifies tokens signed with secret.
func NewAuth(secret string) *Auth {
	return &Auth{secret: secret}
}

// Required rejects requests without a valid bearer token and stores the
// caller's identity in the request locals.
func (a *Auth) Required(c *fiber.Ctx) error {
	ident, err := auth.FromAuthHeader(a.secret, c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "authentication required",
		})
	}
	c.Locals(identityKey, ident)
	return c.Next()
}

// AdminOnly rejects authenticated callers without the admin role. It must
// run after Required.
func (a *Auth) AdminOnly(c *fiber.Ctx) error {
	if !Identity(c).IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "admin access required",
		})
	}
	return c.Next()
}

// Optional stores the caller's identity when a valid token is present and
// lets anonymous requests through with a zero identity. Used by the
// points-gated catalog, which anonymous visitors may browse.
func (a *Auth) Optional(c *fiber.Ctx) error {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if ident, err := auth.FromAuthHeader(a.secret, header); err == nil {
			c.Locals(identityKey, ident)
		}
	}
	return c.Next()
}

// Identity returns the authenticated caller stored by Required or
// Optional. Anonymous requests get the zero Identity.
func Identity(c *fiber.Ctx) auth.Identity {
	if ident, ok := c.Locals(identityKey).(auth.Identity); ok {
		return ident
	}
	return auth.Identity{}
}
