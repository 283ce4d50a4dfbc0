// Package polis is an authenticated profile store for a travel-insurance
// product: two principal kinds (individual users and corporate partners), a
// single-session token gating protected views, an append-only ledger of
// purchased policies, and a deterministic pricing engine.
package polis

import (
	"log/slog"

	"github.com/ohalushka/polis/core"
	"github.com/ohalushka/polis/services"
)

// interfaces
type (
	StorageAdapter  = core.StorageAdapter
	Cache           = core.Cache
	PasswordHandler = core.PasswordHandler
)

// HTTPAdapter wires the presentation boundary. Implementations register
// their routes against the assembled services.
type HTTPAdapter interface {
	RegisterRoutes(p *Polis) error
}

// structs
type (
	PricingConfig = core.PricingConfig
	CacheConfig   = core.CacheConfig
)

// Config assembles the core. Only Storage is required; everything else has
// a sensible default.
type Config struct {
	Storage core.StorageAdapter

	// Optional config
	HTTP           HTTPAdapter
	CacheAdapter   core.Cache
	DisableCache   bool
	Pricing        *core.PricingConfig
	PasswordHasher core.PasswordHandler
	Logger         *slog.Logger
	BasePath       string
}

type (
	User            = core.User
	Partner         = core.Partner
	Principal       = core.Principal
	PrincipalKind   = core.PrincipalKind
	Insurance       = core.Insurance
	InsuredPerson   = core.InsuredPerson
	AuthToken       = core.AuthToken
	CacheStats      = core.CacheStats
	ValidationError = core.ValidationError

	Endpoint         = core.Endpoint
	EndpointMetadata = core.EndpointMetadata
	ErrorResponse    = core.ErrorResponse

	LoginResult          = services.LoginResult
	QuoteParams          = services.QuoteParams
	QuoteResult          = services.QuoteResult
	RegisterUserInput    = services.RegisterUserInput
	RegisterPartnerInput = services.RegisterPartnerInput
)

const (
	KindUser    = core.KindUser
	KindPartner = core.KindPartner
)

const defaultBasePath = "/api"

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache     = core.NewInMemoryCache
	NewArgon2            = core.NewArgon2
	DefaultPricingConfig = core.DefaultPricingConfig
)

var (
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrNotAuthenticated   = core.ErrNotAuthenticated
	ErrInvalidToken       = core.ErrInvalidToken
	ErrUserNotFound       = core.ErrUserNotFound
	ErrPartnerNotFound    = core.ErrPartnerNotFound
	ErrPrincipalNotFound  = core.ErrPrincipalNotFound
	ErrUserExists         = core.ErrUserExists
	ErrPartnerExists      = core.ErrPartnerExists
	ErrStorageRequired    = core.ErrStorageRequired
)

// Polis is the assembled core: session manager, registration, pricing, and
// the profile ledger, all sharing one storage adapter.
type Polis struct {
	Sessions  *services.SessionManager
	Auth      *services.AuthService
	Quotes    *services.QuoteService
	Ledger    *services.ProfileLedger
	Endpoints *services.EndpointRegistry
	BasePath  string
}

func New(config Config) (*Polis, error) {
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}

	// Set Defaults

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil && !config.DisableCache {
		cacheAdapter = NewInMemoryCache(CacheConfig{})
	}

	// Defaulting works on a copy so the caller's struct stays untouched.
	pricing := DefaultPricingConfig()
	if config.Pricing != nil {
		pricing = *config.Pricing
	}
	if pricing.DailyRate == 0 {
		pricing.DailyRate = core.DefaultDailyRate
	}
	if pricing.MaxHeadcount == 0 {
		pricing.MaxHeadcount = core.DefaultMaxHeadcount
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = NewArgon2()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	sessions := services.NewSessionManager(config.Storage, cacheAdapter, passwordHasher, logger)

	p := &Polis{
		Sessions:  sessions,
		Auth:      services.NewAuthService(config.Storage, passwordHasher, logger),
		Quotes:    services.NewQuoteService(pricing),
		Ledger:    services.NewProfileLedger(config.Storage, sessions, logger),
		Endpoints: services.NewEndpointRegistry(),
		BasePath:  basePath,
	}

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Close tears down the session broadcast signals. The store itself is
// owned by the caller and closed separately.
func (p *Polis) Close() {
	p.Sessions.Close()
}
