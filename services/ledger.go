package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ohalushka/polis/core"
)

// ProfileLedger appends purchased policies to the authenticated principal's
// record. The append is strictly additive and positional: the new policy
// always lands last, and nothing already in the sequence is ever touched.
type ProfileLedger struct {
	storage  core.StorageAdapter
	sessions *SessionManager
	log      *slog.Logger
}

func NewProfileLedger(storage core.StorageAdapter, sessions *SessionManager, log *slog.Logger) *ProfileLedger {
	if log == nil {
		log = slog.Default()
	}
	return &ProfileLedger{storage: storage, sessions: sessions, log: log}
}

// AppendPolicy persists ins onto the current session's principal and
// returns the updated principal snapshot. The fresh row is always fetched
// and appended inside the storage layer's atomic append primitive, so
// concurrent appends cannot lose updates. The updated principal is
// republished to the principal signal.
//
// Fails with ErrNotAuthenticated when no session exists, and with
// ErrPrincipalNotFound when the token references a row that is gone.
func (l *ProfileLedger) AppendPolicy(ctx context.Context, ins core.Insurance) (*core.Principal, error) {
	token, err := l.storage.GetToken(ctx)
	if err != nil {
		if errors.Is(err, core.ErrTokenNotFound) {
			return nil, core.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to read session token: %w", err)
	}

	var principal *core.Principal
	switch token.Kind {
	case core.KindUser:
		user, err := l.storage.AppendUserInsurance(ctx, token.PrincipalID, ins)
		if err != nil {
			if errors.Is(err, core.ErrUserNotFound) {
				return nil, core.ErrPrincipalNotFound
			}
			return nil, fmt.Errorf("failed to append policy: %w", err)
		}
		principal = core.UserPrincipal(user)
	case core.KindPartner:
		partner, err := l.storage.AppendPartnerInsurance(ctx, token.PrincipalID, ins)
		if err != nil {
			if errors.Is(err, core.ErrPartnerNotFound) {
				return nil, core.ErrPrincipalNotFound
			}
			return nil, fmt.Errorf("failed to append policy: %w", err)
		}
		principal = core.PartnerPrincipal(partner)
	default:
		return nil, core.ErrUnknownKind
	}

	l.sessions.republish(token.TokenHash, principal)
	l.log.Info("policy appended",
		"kind", string(token.Kind),
		"principalId", token.PrincipalID,
		"policyNumber", ins.PolicyNumber)

	return principal, nil
}
