package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ohalushka/polis/core"
)

func (a *Adapter) ReplaceToken(ctx context.Context, t *core.AuthToken) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO auth_tokens (slot, token_hash, principal_id, kind) VALUES (1, $1, $2, $3)
		ON CONFLICT (slot) DO UPDATE SET
			token_hash = EXCLUDED.token_hash,
			principal_id = EXCLUDED.principal_id,
			kind = EXCLUDED.kind
	`, t.TokenHash, t.PrincipalID, string(t.Kind))
	if err != nil {
		return fmt.Errorf("failed to replace token: %w", err)
	}
	return nil
}

func (a *Adapter) GetToken(ctx context.Context) (*core.AuthToken, error) {
	token := &core.AuthToken{}
	var kind string
	err := a.pool.QueryRow(ctx,
		`SELECT token_hash, principal_id, kind FROM auth_tokens WHERE slot = 1`).
		Scan(&token.TokenHash, &token.PrincipalID, &kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	token.Kind = core.PrincipalKind(kind)
	return token, nil
}

func (a *Adapter) ClearToken(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, `DELETE FROM auth_tokens`); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
