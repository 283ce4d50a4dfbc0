package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

type TokenPair struct {
	Token string // value returned to client
	Hash  string // value in storage
}

// NewTokenPair mints an opaque session token (a v4 UUID) together with the
// hash that goes into storage. Only the hash is ever persisted.
func NewTokenPair() (*TokenPair, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	token := u.String()
	return &TokenPair{
		Token: token,
		Hash:  HashToken(token),
	}, nil
}

// VerifyToken checks a presented raw token against a stored hash.
func VerifyToken(token, storedHash string) (bool, error) {
	if token == "" || storedHash == "" {
		return false, errors.New("token and hash cannot be empty")
	}

	tokenHash := HashToken(token)

	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(tokenHash), []byte(storedHash)) == 1, nil
}

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
