package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/ohalushka/polis"
)

// signInRequest selects the account table to authenticate against. Kind is
// "user" or "partner"; email doubles as the company email for partners.
type signInRequest struct {
	Kind     polis.PrincipalKind `json:"kind"`
	Email    string              `json:"email"`
	Password string              `json:"password"`
}

// issuePolicyRequest carries the priced trip plus the roster of insured
// persons for policy issuance.
type issuePolicyRequest struct {
	polis.QuoteParams
	InsuredPersons []polis.InsuredPerson `json:"insuredPersons"`
}

// handleRegisterUser returns the handler for individual sign-up.
func handleRegisterUser(p *polis.Polis) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input polis.RegisterUserInput
		if err := c.Bind().Body(&input); err != nil {
			return badRequestBody(c)
		}

		user, err := p.Auth.RegisterUser(c.Context(), input)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.Status(http.StatusCreated).JSON(user)
	}
}

// handleRegisterPartner returns the handler for corporate sign-up.
func handleRegisterPartner(p *polis.Polis) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input polis.RegisterPartnerInput
		if err := c.Bind().Body(&input); err != nil {
			return badRequestBody(c)
		}

		partner, err := p.Auth.RegisterPartner(c.Context(), input)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.Status(http.StatusCreated).JSON(partner)
	}
}

// handleSignIn returns the handler for opening the session. The raw token
// is both returned in the body and set as a cookie so browser clients and
// API clients share one endpoint.
func handleSignIn(p *polis.Polis) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input signInRequest
		if err := c.Bind().Body(&input); err != nil {
			return badRequestBody(c)
		}

		result, err := p.Sessions.Login(c.Context(), input.Kind, input.Email, input.Password)
		if err != nil {
			return handleServiceError(c, err)
		}

		c.Cookie(&fiber.Cookie{
			Name:     "auth_token",
			Value:    result.Token,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		return c.Status(http.StatusOK).JSON(result)
	}
}

// handleSignOut returns the handler that closes the session.
func handleSignOut(p *polis.Polis) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := p.Sessions.Logout(c.Context()); err != nil {
			return handleServiceError(c, err)
		}

		c.ClearCookie("auth_token")

		return c.Status(http.StatusOK).JSON(map[string]string{
			"message": "signed out successfully",
		})
	}
}

// handleGetSession returns the handler exposing the current principal. The
// access gate has already verified the token and stored the principal.
func handleGetSession() fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(currentPrincipal(c))
	}
}

// handleQuote returns the pricing handler. Quoting is open to anonymous
// visitors; a valid session for a partner account switches on the
// corporate discount.
func handleQuote(p *polis.Polis) fiber.Handler {
	return func(c fiber.Ctx) error {
		var params polis.QuoteParams
		if err := c.Bind().Body(&params); err != nil {
			return badRequestBody(c)
		}

		corporate := false
		if token := extractToken(c); token != "" {
			if principal, err := p.Sessions.Verify(c.Context(), token); err == nil {
				corporate = principal.Corporate()
			}
		}

		result, err := p.Quotes.Quote(params, corporate)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.Status(http.StatusOK).JSON(result)
	}
}

// handleAppendPolicy returns the handler that issues a policy and appends
// it to the signed-in principal's profile.
func handleAppendPolicy(p *polis.Polis) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input issuePolicyRequest
		if err := c.Bind().Body(&input); err != nil {
			return badRequestBody(c)
		}

		principal := currentPrincipal(c)

		insurance, err := p.Quotes.IssuePolicy(principal, input.QuoteParams, input.InsuredPersons)
		if err != nil {
			return handleServiceError(c, err)
		}

		if _, err := p.Ledger.AppendPolicy(c.Context(), *insurance); err != nil {
			return handleServiceError(c, err)
		}

		return c.Status(http.StatusCreated).JSON(insurance)
	}
}

// handleListPolicies returns the handler listing the signed-in principal's
// purchased policies.
func handleListPolicies() fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(currentPrincipal(c).Insurances())
	}
}

// handleListUsers returns the directory listing of individual accounts.
func handleListUsers(p *polis.Polis) fiber.Handler {
	return func(c fiber.Ctx) error {
		users, err := p.Auth.ListUsers(c.Context())
		if err != nil {
			return handleServiceError(c, err)
		}
		return c.Status(http.StatusOK).JSON(users)
	}
}

// handleListPartners returns the directory listing of corporate accounts.
func handleListPartners(p *polis.Polis) fiber.Handler {
	return func(c fiber.Ctx) error {
		partners, err := p.Auth.ListPartners(c.Context())
		if err != nil {
			return handleServiceError(c, err)
		}
		return c.Status(http.StatusOK).JSON(partners)
	}
}

// extractToken extracts the session token from the request.
// Checks Authorization header (Bearer token) first, then falls back to cookie.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}

	return c.Cookies("auth_token")
}

func badRequestBody(c fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(polis.ErrorResponse{
		Error: "invalid request body",
	})
}

// handleServiceError maps service errors to appropriate HTTP responses
func handleServiceError(c fiber.Ctx, err error) error {
	return c.Status(mapErrorToStatus(err)).JSON(polis.ErrorResponse{
		Error: err.Error(),
	})
}

// mapErrorToStatus maps polis error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var validation *polis.ValidationError

	switch {
	case errors.Is(err, polis.ErrInvalidCredentials),
		errors.Is(err, polis.ErrNotAuthenticated),
		errors.Is(err, polis.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, polis.ErrUserExists),
		errors.Is(err, polis.ErrPartnerExists):
		return http.StatusConflict

	case errors.As(err, &validation):
		return http.StatusBadRequest

	case errors.Is(err, polis.ErrUserNotFound),
		errors.Is(err, polis.ErrPartnerNotFound),
		errors.Is(err, polis.ErrPrincipalNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
