package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ohalushka/polis/core"
)

func (a *Adapter) CreateUser(ctx context.Context, u *core.User) error {
	insurances, err := json.Marshal(orEmpty(u.Insurances))
	if err != nil {
		return fmt.Errorf("failed to encode insurances: %w", err)
	}

	err = a.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, insurances)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.Email, u.PasswordHash, insurances).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	row := a.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, insurances FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	row := a.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, insurances FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// AppendUserInsurance appends in a single statement: the jsonb
// concatenation happens inside the database, so concurrent appends
// serialize on the row and none is lost.
func (a *Adapter) AppendUserInsurance(ctx context.Context, id int64, ins core.Insurance) (*core.User, error) {
	encoded, err := json.Marshal(ins)
	if err != nil {
		return nil, fmt.Errorf("failed to encode insurance: %w", err)
	}

	row := a.pool.QueryRow(ctx,
		`UPDATE users SET insurances = insurances || $2::jsonb WHERE id = $1
		 RETURNING id, username, email, password_hash, insurances`,
		id, encoded)
	return scanUser(row)
}

func (a *Adapter) ListUsers(ctx context.Context) ([]*core.User, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT id, username, email, password_hash, insurances FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*core.User, error) {
	user := &core.User{}
	var insurances []byte
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &insurances)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if err := json.Unmarshal(insurances, &user.Insurances); err != nil {
		return nil, fmt.Errorf("failed to decode insurances: %w", err)
	}
	if len(user.Insurances) == 0 {
		user.Insurances = nil
	}
	return user, nil
}

func orEmpty(ins []core.Insurance) []core.Insurance {
	if ins == nil {
		return []core.Insurance{}
	}
	return ins
}

func isUniqueViolation(err error) bool {
	// 23505 = unique_violation
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}
