package core

import "context"

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// UserStorage defines user-table operations.
//
// Every operation is an isolated unit with read-after-write consistency;
// callers must not assume atomicity across operations.
type UserStorage interface {
	// CreateUser inserts the user and assigns its ID.
	// Returns ErrUserExists when the email is taken.
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// AppendUserInsurance appends one policy to the user's sequence as a
	// single atomic operation and returns the updated row. Concurrent
	// appends must not lose updates.
	AppendUserInsurance(ctx context.Context, id int64, ins Insurance) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// PartnerStorage defines partner-table operations, mirroring UserStorage.
type PartnerStorage interface {
	CreatePartner(ctx context.Context, p *Partner) error
	GetPartnerByID(ctx context.Context, id int64) (*Partner, error)
	GetPartnerByEmail(ctx context.Context, companyEmail string) (*Partner, error)
	AppendPartnerInsurance(ctx context.Context, id int64, ins Insurance) (*Partner, error)
	ListPartners(ctx context.Context) ([]*Partner, error)
}

// TokenStorage manages the singleton auth-token row.
type TokenStorage interface {
	// ReplaceToken atomically swaps whatever token exists for t. It is an
	// upsert on a fixed key, never a clear followed by an insert: there is
	// no window where zero or two tokens exist.
	ReplaceToken(ctx context.Context, t *AuthToken) error
	// GetToken returns the current token or ErrTokenNotFound.
	GetToken(ctx context.Context) (*AuthToken, error)
	// ClearToken removes the token. Clearing an empty table is not an error.
	ClearToken(ctx context.Context) error
}

type StorageAdapter interface {
	UserStorage
	PartnerStorage
	TokenStorage
}
