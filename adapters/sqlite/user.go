package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ohalushka/polis/core"
)

func (a *Adapter) CreateUser(ctx context.Context, u *core.User) error {
	insurances, err := encodeInsurances(u.Insurances)
	if err != nil {
		return err
	}

	res, err := a.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, insurances) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, insurances)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	u.ID = id
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, insurances FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, insurances FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// AppendUserInsurance runs the whole read-modify-write inside one
// transaction, so a concurrent append cannot interleave between the read
// and the write.
func (a *Adapter) AppendUserInsurance(ctx context.Context, id int64, ins core.Insurance) (*core.User, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, insurances FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	user.Insurances = append(user.Insurances, ins)
	encoded, err := encodeInsurances(user.Insurances)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET insurances = ? WHERE id = ?`, encoded, id); err != nil {
		return nil, fmt.Errorf("failed to update insurances: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit append: %w", err)
	}
	return user, nil
}

func (a *Adapter) ListUsers(ctx context.Context) ([]*core.User, error) {
	rows, err := a.db.QueryContext(ctx,
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
	var insurances string
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &insurances)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Insurances, err = decodeInsurances(insurances)
	if err != nil {
		return nil, err
	}
	return user, nil
}
