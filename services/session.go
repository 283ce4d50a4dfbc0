package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ohalushka/polis/core"
	"github.com/ohalushka/polis/pkg/crypto"
)

// SessionManager owns the single active session. It is a two-state machine:
// Anonymous (no token row) and Authenticated (exactly one token row bound
// to a principal). Every transition goes through the storage layer's atomic
// token primitives, then publishes to the two broadcast signals: the
// authenticated flag first, the current principal second.
type SessionManager struct {
	storage   core.StorageAdapter
	cache     core.Cache // optional, nil when caching is disabled
	passwords core.PasswordHandler
	log       *slog.Logger

	authenticated *core.Signal[bool]
	principal     *core.Signal[*core.Principal]
}

func NewSessionManager(storage core.StorageAdapter, cache core.Cache, passwords core.PasswordHandler, log *slog.Logger) *SessionManager {
	if log == nil {
		log = slog.Default()
	}
	return &SessionManager{
		storage:       storage,
		cache:         cache,
		passwords:     passwords,
		log:           log,
		authenticated: core.NewSignal(false),
		principal:     core.NewSignal[*core.Principal](nil),
	}
}

// Authenticated is the broadcast signal carrying the session flag. The
// manager is its only writer.
func (sm *SessionManager) Authenticated() *core.Signal[bool] {
	return sm.authenticated
}

// Principal is the broadcast signal carrying the current principal, nil
// when anonymous.
func (sm *SessionManager) Principal() *core.Signal[*core.Principal] {
	return sm.principal
}

type LoginResult struct {
	Principal *core.Principal `json:"principal"`
	Token     string          `json:"token"` // the raw token (not the hash)
}

// Login authenticates a principal of the given kind by its unique
// identifier (email for users, company email for partners) and password.
//
// On success the singleton token row is atomically replaced; any previous
// session is displaced in the same swap. A credential mismatch returns
// ErrInvalidCredentials and leaves the session state untouched.
func (sm *SessionManager) Login(ctx context.Context, kind core.PrincipalKind, identifier, password string) (*LoginResult, error) {
	principal, passwordHash, err := sm.lookup(ctx, kind, identifier)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) || errors.Is(err, core.ErrPartnerNotFound) {
			sm.log.Debug("login rejected: unknown identifier", "kind", string(kind))
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up principal: %w", err)
	}

	valid, err := sm.passwords.Verify(password, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		sm.log.Debug("login rejected: password mismatch", "kind", string(kind))
		return nil, core.ErrInvalidCredentials
	}

	pair, err := crypto.NewTokenPair()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &core.AuthToken{
		TokenHash:   pair.Hash,
		PrincipalID: principal.PrincipalID(),
		Kind:        kind,
	}
	if err := sm.storage.ReplaceToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store session token: %w", err)
	}

	if sm.cache != nil {
		// The swap invalidated whatever session was cached before.
		_ = sm.cache.Clear()
		_ = sm.cache.Set(pair.Hash, principal)
	}

	sm.publish(true, principal)
	sm.log.Info("session opened", "kind", string(kind), "principalId", principal.PrincipalID())

	return &LoginResult{Principal: principal, Token: pair.Token}, nil
}

// Logout clears the token row unconditionally and publishes the anonymous
// state. Logging out of an anonymous session is not an error.
func (sm *SessionManager) Logout(ctx context.Context) error {
	if err := sm.storage.ClearToken(ctx); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}

	if sm.cache != nil {
		_ = sm.cache.Clear()
	}

	sm.publish(false, nil)
	sm.log.Info("session closed")
	return nil
}

// CurrentPrincipal resolves the principal referenced by the token row, or
// nil when anonymous. A token pointing at a missing principal row is
// treated as no session. Read-only: nothing is published.
func (sm *SessionManager) CurrentPrincipal(ctx context.Context) (*core.Principal, error) {
	_, principal, err := sm.resolve(ctx)
	return principal, err
}

// CheckStatus derives the session state like CurrentPrincipal, then
// republishes it to both signals.
func (sm *SessionManager) CheckStatus(ctx context.Context) (bool, error) {
	_, principal, err := sm.resolve(ctx)
	if err != nil {
		return false, err
	}
	sm.publish(principal != nil, principal)
	return principal != nil, nil
}

// IsAccessAllowed is the access-gate predicate: true exactly when a valid
// session exists. Store failures count as denied.
func (sm *SessionManager) IsAccessAllowed(ctx context.Context) bool {
	principal, err := sm.CurrentPrincipal(ctx)
	return err == nil && principal != nil
}

// Verify checks a presented raw token against the stored session and
// returns the owning principal. Used by transport middleware, where the
// client re-presents its token on every request.
func (sm *SessionManager) Verify(ctx context.Context, token string) (*core.Principal, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	if sm.cache != nil {
		if principal, err := sm.cache.Get(tokenHash); err == nil && principal != nil {
			return principal, nil
		}
	}

	stored, err := sm.storage.GetToken(ctx)
	if err != nil {
		if errors.Is(err, core.ErrTokenNotFound) {
			return nil, core.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to read session token: %w", err)
	}

	valid, err := crypto.VerifyToken(token, stored.TokenHash)
	if err != nil || !valid {
		return nil, core.ErrInvalidToken
	}

	principal, err := sm.principalByID(ctx, stored.Kind, stored.PrincipalID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) || errors.Is(err, core.ErrPartnerNotFound) {
			// Stale token: the referenced row is gone.
			return nil, core.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	if sm.cache != nil {
		_ = sm.cache.Set(tokenHash, principal)
	}

	return principal, nil
}

// Close tears down the broadcast signals. The manager must not be used
// afterwards.
func (sm *SessionManager) Close() {
	sm.authenticated.Close()
	sm.principal.Close()
}

// resolve reads the singleton token row and the principal it references.
// Anonymous (absent token, or token with a stale principal id) is
// (nil, nil, nil); only store failures surface as errors.
func (sm *SessionManager) resolve(ctx context.Context) (*core.AuthToken, *core.Principal, error) {
	token, err := sm.storage.GetToken(ctx)
	if err != nil {
		if errors.Is(err, core.ErrTokenNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read session token: %w", err)
	}

	principal, err := sm.principalByID(ctx, token.Kind, token.PrincipalID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) || errors.Is(err, core.ErrPartnerNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	return token, principal, nil
}

func (sm *SessionManager) lookup(ctx context.Context, kind core.PrincipalKind, identifier string) (*core.Principal, string, error) {
	switch kind {
	case core.KindUser:
		u, err := sm.storage.GetUserByEmail(ctx, identifier)
		if err != nil {
			return nil, "", err
		}
		return core.UserPrincipal(u), u.PasswordHash, nil
	case core.KindPartner:
		p, err := sm.storage.GetPartnerByEmail(ctx, identifier)
		if err != nil {
			return nil, "", err
		}
		return core.PartnerPrincipal(p), p.PasswordHash, nil
	default:
		return nil, "", core.ErrUnknownKind
	}
}

func (sm *SessionManager) principalByID(ctx context.Context, kind core.PrincipalKind, id int64) (*core.Principal, error) {
	switch kind {
	case core.KindUser:
		u, err := sm.storage.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return core.UserPrincipal(u), nil
	case core.KindPartner:
		p, err := sm.storage.GetPartnerByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return core.PartnerPrincipal(p), nil
	default:
		return nil, core.ErrUnknownKind
	}
}

// publish pushes the derived state to both signals, flag first.
func (sm *SessionManager) publish(authenticated bool, principal *core.Principal) {
	sm.authenticated.Publish(authenticated)
	sm.principal.Publish(principal)
}

// republish updates only the principal signal (and cache entry) after a
// profile mutation. The authenticated flag is unaffected.
func (sm *SessionManager) republish(tokenHash string, principal *core.Principal) {
	if sm.cache != nil {
		_ = sm.cache.Set(tokenHash, principal)
	}
	sm.principal.Publish(principal)
}
