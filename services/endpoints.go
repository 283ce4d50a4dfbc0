package services

import (
	"fmt"

	"github.com/ohalushka/polis/core"
)

// BaseEndpoints returns framework-agnostic endpoint definitions for the
// whole presentation boundary.
//
// Each endpoint is a template: Path, Method, and the Protected flag are
// set, and Metadata names the operation. Adapters (Fiber, or any other
// framework) map OperationID onto their own handlers, so multiple adapters
// share one route table.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/sign-up",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "registerUser",
				Description: "Register an individual customer account",
			},
		},
		{
			Path:   "/sign-up/partner",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "registerPartner",
				Description: "Register a corporate partner account",
			},
		},
		{
			Path:   "/sign-in",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "signIn",
				Description: "Open the session for a user or partner",
			},
		},
		{
			Path:      "/sign-out",
			Method:    "POST",
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "signOut",
				Description: "Close the current session",
			},
		},
		{
			Path:      "/session",
			Method:    "GET",
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "getSession",
				Description: "Get the current principal",
			},
		},
		{
			Path:   "/quote",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "quote",
				Description: "Price a trip-insurance quote",
			},
		},
		{
			Path:      "/policies",
			Method:    "POST",
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "appendPolicy",
				Description: "Issue a policy and append it to the current profile",
			},
		},
		{
			Path:      "/policies",
			Method:    "GET",
			Protected: true,
			Metadata: core.EndpointMetadata{
				OperationID: "listPolicies",
				Description: "List the current principal's policies",
			},
		},
		{
			Path:   "/users",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: "listUsers",
				Description: "List registered users",
			},
		},
		{
			Path:   "/partners",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: "listPartners",
				Description: "List registered partners",
			},
		},
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints
// and handles conflict detection for duplicate METHOD:PATH combinations.
//
// It starts with the base endpoints and supports registration of
// additional plugin endpoints with automatic conflict detection.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
	order     []string
}

// NewEndpointRegistry creates a new registry with all base endpoints
// pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	base := BaseEndpoints()
	for i := range base {
		_ = reg.register(&base[i])
	}

	return reg
}

// register adds a single endpoint to the registry with conflict detection.
// Returns error if an endpoint with the same METHOD:PATH already exists.
func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	r.order = append(r.order, key)
	return nil
}

// RegisterPlugin registers additional plugin endpoints. Returns error if
// any plugin endpoint conflicts with existing endpoints or with other
// plugin endpoints in the same batch.
//
// If an error occurs, no endpoints from the plugin are registered.
func (r *EndpointRegistry) RegisterPlugin(endpoints []core.Endpoint) error {
	for i := range endpoints {
		ep := &endpoints[i]
		key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)
		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("plugin endpoint conflict: %s %s already registered", ep.Method, ep.Path)
		}
	}
	seen := make(map[string]struct{}, len(endpoints))
	for i := range endpoints {
		ep := &endpoints[i]
		key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("plugin endpoint conflict: %s %s registered twice in batch", ep.Method, ep.Path)
		}
		seen[key] = struct{}{}
	}

	for i := range endpoints {
		if err := r.register(&endpoints[i]); err != nil {
			return err
		}
	}
	return nil
}

// Endpoints returns the registered endpoints in registration order.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	out := make([]*core.Endpoint, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.endpoints[key])
	}
	return out
}
