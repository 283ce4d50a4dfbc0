package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ohalushka/polis/core"
)

func openTestAdapter(t *testing.T, path string) (*Adapter, *sql.DB) {
	t.Helper()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return New(db), db
}

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	adapter, _ := openTestAdapter(t, filepath.Join(t.TempDir(), "polis.db"))
	return adapter
}

func TestAdapter_UserCRUD(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	user := &core.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$stub",
	}

	if err := adapter.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID == 0 {
		t.Fatal("CreateUser() should backfill the generated id")
	}

	byID, err := adapter.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if byID.Email != user.Email || byID.PasswordHash != user.PasswordHash {
		t.Errorf("GetUserByID() = %+v, want %+v", byID, user)
	}
	if len(byID.Insurances) != 0 {
		t.Errorf("fresh user should own no policies, got %d", len(byID.Insurances))
	}

	byEmail, err := adapter.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetUserByEmail() id = %d, want %d", byEmail.ID, user.ID)
	}

	if _, err := adapter.GetUserByID(ctx, 404); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("missing id should yield ErrUserNotFound, got %v", err)
	}
	if _, err := adapter.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("missing email should yield ErrUserNotFound, got %v", err)
	}
}

func TestAdapter_CreateUser_DuplicateEmail(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	first := &core.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	if err := adapter.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	dup := &core.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "h"}
	if err := adapter.CreateUser(ctx, dup); !errors.Is(err, core.ErrUserExists) {
		t.Errorf("duplicate email should yield ErrUserExists, got %v", err)
	}
}

func TestAdapter_PartnerCRUD(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	partner := &core.Partner{
		CompanyName:   "Globex",
		ContactPerson: "Hank Scorpio",
		CompanyEmail:  "hank@globex.example",
		Phone:         "+1 555 0101",
		PasswordHash:  "$argon2id$stub",
	}
	if err := adapter.CreatePartner(ctx, partner); err != nil {
		t.Fatalf("CreatePartner() error = %v", err)
	}

	got, err := adapter.GetPartnerByEmail(ctx, "hank@globex.example")
	if err != nil {
		t.Fatalf("GetPartnerByEmail() error = %v", err)
	}
	if got.CompanyName != "Globex" || got.ID != partner.ID {
		t.Errorf("GetPartnerByEmail() = %+v, want %+v", got, partner)
	}

	dup := &core.Partner{CompanyName: "Other", CompanyEmail: "hank@globex.example", PasswordHash: "h"}
	if err := adapter.CreatePartner(ctx, dup); !errors.Is(err, core.ErrPartnerExists) {
		t.Errorf("duplicate company email should yield ErrPartnerExists, got %v", err)
	}

	if _, err := adapter.GetPartnerByID(ctx, 404); !errors.Is(err, core.ErrPartnerNotFound) {
		t.Errorf("missing id should yield ErrPartnerNotFound, got %v", err)
	}
}

func TestAdapter_AppendUserInsurance(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	user := &core.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	if err := adapter.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	first := core.Insurance{
		PolicyNumber:   "POL-ONE",
		InsuredName:    "alice",
		Country:        "Italy",
		StartDate:      "2025-06-01",
		EndDate:        "2025-06-11",
		Days:           10,
		NumberOfPeople: 1,
		InsuredPersons: []core.InsuredPerson{
			{LastName: "Smith", FirstName: "Alice", BirthDate: "1990-04-12"},
		},
		Cost:     50.00,
		Document: "TRAVEL INSURANCE POLICY No. POL-ONE",
	}
	second := first
	second.PolicyNumber = "POL-TWO"

	updated, err := adapter.AppendUserInsurance(ctx, user.ID, first)
	if err != nil {
		t.Fatalf("first AppendUserInsurance() error = %v", err)
	}
	if len(updated.Insurances) != 1 {
		t.Fatalf("ledger length = %d, want 1", len(updated.Insurances))
	}

	updated, err = adapter.AppendUserInsurance(ctx, user.ID, second)
	if err != nil {
		t.Fatalf("second AppendUserInsurance() error = %v", err)
	}
	if len(updated.Insurances) != 2 {
		t.Fatalf("ledger length = %d, want 2", len(updated.Insurances))
	}
	if updated.Insurances[0].PolicyNumber != "POL-ONE" || updated.Insurances[1].PolicyNumber != "POL-TWO" {
		t.Errorf("policies out of order: %q, %q",
			updated.Insurances[0].PolicyNumber, updated.Insurances[1].PolicyNumber)
	}
	if updated.Insurances[0].InsuredPersons[0].LastName != "Smith" {
		t.Error("nested insured persons should round-trip through the JSON column")
	}

	if _, err := adapter.AppendUserInsurance(ctx, 404, first); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("append onto a missing row should yield ErrUserNotFound, got %v", err)
	}
}

func TestAdapter_AppendPartnerInsurance(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	partner := &core.Partner{CompanyName: "Globex", CompanyEmail: "hank@globex.example", PasswordHash: "h"}
	if err := adapter.CreatePartner(ctx, partner); err != nil {
		t.Fatalf("CreatePartner() error = %v", err)
	}

	ins := core.Insurance{PolicyNumber: "POL-CORP", DiscountApplied: true, Cost: 37.50}
	updated, err := adapter.AppendPartnerInsurance(ctx, partner.ID, ins)
	if err != nil {
		t.Fatalf("AppendPartnerInsurance() error = %v", err)
	}
	if len(updated.Insurances) != 1 || !updated.Insurances[0].DiscountApplied {
		t.Errorf("partner ledger = %+v, want one discounted policy", updated.Insurances)
	}
}

func TestAdapter_ListUsersAndPartners(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if err := adapter.CreateUser(ctx, &core.User{Username: email, Email: email, PasswordHash: "h"}); err != nil {
			t.Fatalf("CreateUser(%s) error = %v", email, err)
		}
	}
	if err := adapter.CreatePartner(ctx, &core.Partner{CompanyName: "Globex", CompanyEmail: "g@globex.example", PasswordHash: "h"}); err != nil {
		t.Fatalf("CreatePartner() error = %v", err)
	}

	users, err := adapter.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ListUsers() returned %d, want 2", len(users))
	}
	if users[0].Email != "a@example.com" || users[1].Email != "b@example.com" {
		t.Errorf("users should come back in insertion order, got %q then %q", users[0].Email, users[1].Email)
	}

	partners, err := adapter.ListPartners(ctx)
	if err != nil {
		t.Fatalf("ListPartners() error = %v", err)
	}
	if len(partners) != 1 {
		t.Errorf("ListPartners() returned %d, want 1", len(partners))
	}
}

func TestAdapter_TokenSingleton(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	if _, err := adapter.GetToken(ctx); !errors.Is(err, core.ErrTokenNotFound) {
		t.Fatalf("empty table should yield ErrTokenNotFound, got %v", err)
	}

	first := &core.AuthToken{TokenHash: "hash-one", PrincipalID: 1, Kind: core.KindUser}
	if err := adapter.ReplaceToken(ctx, first); err != nil {
		t.Fatalf("ReplaceToken() error = %v", err)
	}

	second := &core.AuthToken{TokenHash: "hash-two", PrincipalID: 2, Kind: core.KindPartner}
	if err := adapter.ReplaceToken(ctx, second); err != nil {
		t.Fatalf("second ReplaceToken() error = %v", err)
	}

	got, err := adapter.GetToken(ctx)
	if err != nil {
		t.Fatalf("GetToken() error = %v", err)
	}
	if got.TokenHash != "hash-two" || got.Kind != core.KindPartner || got.PrincipalID != 2 {
		t.Errorf("GetToken() = %+v, want the second token", got)
	}

	var count int
	if err := adapter.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM auth_tokens`).Scan(&count); err != nil {
		t.Fatalf("counting token rows: %v", err)
	}
	if count != 1 {
		t.Errorf("auth_tokens should hold exactly 1 row, got %d", count)
	}

	if err := adapter.ClearToken(ctx); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	if _, err := adapter.GetToken(ctx); !errors.Is(err, core.ErrTokenNotFound) {
		t.Errorf("cleared table should yield ErrTokenNotFound, got %v", err)
	}

	// Clearing an already-empty table is a no-op.
	if err := adapter.ClearToken(ctx); err != nil {
		t.Errorf("second ClearToken() error = %v", err)
	}
}

func TestAdapter_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polis.db")
	ctx := context.Background()

	adapter, db := openTestAdapter(t, path)
	user := &core.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	if err := adapter.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := adapter.AppendUserInsurance(ctx, user.ID, core.Insurance{PolicyNumber: "POL-ONE"}); err != nil {
		t.Fatalf("AppendUserInsurance() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("closing database: %v", err)
	}

	reopened, _ := openTestAdapter(t, path)
	got, err := reopened.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() after reopen error = %v", err)
	}
	if len(got.Insurances) != 1 || got.Insurances[0].PolicyNumber != "POL-ONE" {
		t.Errorf("ledger should survive reopen, got %+v", got.Insurances)
	}
}
