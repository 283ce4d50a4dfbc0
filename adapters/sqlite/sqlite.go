// Package sqlite is the embedded local store: a single-file database
// holding the users, partners, and auth_tokens tables. It is the default
// adapter for single-user, browser-style deployments.
package sqlite

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/ohalushka/polis/core"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Adapter struct {
	db *sql.DB
}

var _ core.StorageAdapter = (*Adapter)(nil)

func New(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// Open opens (creating if necessary) the database file with pragmas suited
// to a single local writer. Use ":memory:" for an ephemeral store.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite has one writer; a second connection would only queue behind
	// the busy timeout.
	db.SetMaxOpenConns(1)

	return db, nil
}

// Migrate brings the schema to the current version. Upgrades preserve
// existing rows; goose records the applied version in its own table.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Insurance sequences are stored as a JSON array in the owning row, the
// same shape the original records had in the browser store.

func encodeInsurances(ins []core.Insurance) (string, error) {
	if ins == nil {
		ins = []core.Insurance{}
	}
	raw, err := json.Marshal(ins)
	if err != nil {
		return "", fmt.Errorf("failed to encode insurances: %w", err)
	}
	return string(raw), nil
}

func decodeInsurances(raw string) ([]core.Insurance, error) {
	if raw == "" {
		return nil, nil
	}
	var ins []core.Insurance
	if err := json.Unmarshal([]byte(raw), &ins); err != nil {
		return nil, fmt.Errorf("failed to decode insurances: %w", err)
	}
	if len(ins) == 0 {
		return nil, nil
	}
	return ins, nil
}
