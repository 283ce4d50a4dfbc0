package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ohalushka/polis/core"
)

// ReplaceToken swaps the singleton row in one upsert against the fixed
// slot. There is never a moment with zero or two tokens.
func (a *Adapter) ReplaceToken(ctx context.Context, t *core.AuthToken) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (slot, token_hash, principal_id, kind) VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			token_hash = excluded.token_hash,
			principal_id = excluded.principal_id,
			kind = excluded.kind
	`, t.TokenHash, t.PrincipalID, string(t.Kind))
	if err != nil {
		return fmt.Errorf("failed to replace token: %w", err)
	}
	return nil
}

func (a *Adapter) GetToken(ctx context.Context) (*core.AuthToken, error) {
	token := &core.AuthToken{}
	var kind string
	err := a.db.QueryRowContext(ctx,
		`SELECT token_hash, principal_id, kind FROM auth_tokens WHERE slot = 1`).
		Scan(&token.TokenHash, &token.PrincipalID, &kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	token.Kind = core.PrincipalKind(kind)
	return token, nil
}

func (a *Adapter) ClearToken(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM auth_tokens`); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
