package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ohalushka/polis"
)

// principalKey is the Locals key under which the access gate stores the
// verified principal for downstream handlers.
const principalKey = "principal"

// RequireAuth builds the access-gate middleware. It verifies the bearer
// token (or session cookie) against the singleton session and stores the
// principal in the request context. Rejections carry the requested path
// as returnTo so a client can come back after signing in.
//
// Applications can attach the same gate to their own routes.
func RequireAuth(p *polis.Polis) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(polis.ErrorResponse{
				Error:    polis.ErrNotAuthenticated.Error(),
				ReturnTo: c.Path(),
			})
		}

		principal, err := p.Sessions.Verify(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(polis.ErrorResponse{
				Error:    err.Error(),
				ReturnTo: c.Path(),
			})
		}

		c.Locals(principalKey, principal)

		return c.Next()
	}
}

// currentPrincipal reads the principal the access gate stored. Returns nil
// when the route was not protected or the gate did not run.
func currentPrincipal(c fiber.Ctx) *polis.Principal {
	principal, _ := c.Locals(principalKey).(*polis.Principal)
	return principal
}
