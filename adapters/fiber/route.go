// Package fiber adapts the polis endpoint table onto a gofiber/v3
// application. It is the reference HTTP adapter: routes come from the
// shared endpoint registry, so any other framework adapter exposes the
// same surface.
package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/ohalushka/polis"
)

type Adapter struct {
	app *fiber.App
}

var _ polis.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

// RegisterRoutes mounts every endpoint from the shared registry under
// the configured base path. Protected endpoints get the access-gate
// middleware attached in front of their handler.
func (a *Adapter) RegisterRoutes(p *polis.Polis) error {
	api := a.app.Group(p.BasePath)

	handlers := map[string]fiber.Handler{
		"registerUser":    handleRegisterUser(p),
		"registerPartner": handleRegisterPartner(p),
		"signIn":          handleSignIn(p),
		"signOut":         handleSignOut(p),
		"getSession":      handleGetSession(),
		"quote":           handleQuote(p),
		"appendPolicy":    handleAppendPolicy(p),
		"listPolicies":    handleListPolicies(),
		"listUsers":       handleListUsers(p),
		"listPartners":    handleListPartners(p),
	}

	gate := RequireAuth(p)

	for _, ep := range p.Endpoints.Endpoints() {
		handler, ok := handlers[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no handler for operation %q", ep.Metadata.OperationID)
		}

		// The chain executes in registration order, so the gate must
		// come before the business handler on protected endpoints.
		first, rest := any(handler), []any(nil)
		if ep.Protected {
			first, rest = any(gate), []any{handler}
		}

		switch ep.Method {
		case fiber.MethodGet:
			api.Get(ep.Path, first, rest...)
		case fiber.MethodPost:
			api.Post(ep.Path, first, rest...)
		case fiber.MethodPut:
			api.Put(ep.Path, first, rest...)
		case fiber.MethodDelete:
			api.Delete(ep.Path, first, rest...)
		default:
			return fmt.Errorf("unsupported method %q for %s", ep.Method, ep.Path)
		}
	}

	return nil
}
