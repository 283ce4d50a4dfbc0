package core

// PrincipalKind discriminates the two account variants. The kind travels as
// data with every token and principal; nothing in the system infers it from
// which fields happen to be set.
type PrincipalKind string

const (
	KindUser    PrincipalKind = "user"
	KindPartner PrincipalKind = "partner"
)

// Valid reports whether k is one of the two known kinds.
func (k PrincipalKind) Valid() bool {
	return k == KindUser || k == KindPartner
}

// User is an individual customer account.
//
// Rows are created on registration and never deleted; the only mutation is
// appending to Insurances.
type User struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // argon2id encoded hash, never exposed
	Insurances   []Insurance `json:"insurances"`
}

// Partner is a corporate account. Policies purchased by partners carry the
// corporate discount.
type Partner struct {
	ID            int64       `json:"id"`
	CompanyName   string      `json:"companyName"`
	ContactPerson string      `json:"contactPerson"`
	CompanyEmail  string      `json:"companyEmail"`
	Phone         string      `json:"phone"`
	PasswordHash  string      `json:"-"`
	Insurances    []Insurance `json:"insurances"`
}

// InsuredPerson identifies one covered individual on a policy.
type InsuredPerson struct {
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	BirthDate  string `json:"birthDate"`
}

// Insurance is a purchased policy. It is immutable once created: the ledger
// only ever appends whole records, never edits them.
//
// len(InsuredPersons) == NumberOfPeople. Document holds the rendered
// plain-text policy; it is display-only but its fields must match the
// structured ones.
type Insurance struct {
	PolicyNumber    string          `json:"policyNumber"`
	InsuredName     string          `json:"insuredName"`
	Country         string          `json:"country"`
	StartDate       string          `json:"startDate"` // YYYY-MM-DD
	EndDate         string          `json:"endDate"`   // YYYY-MM-DD
	Days            int             `json:"days"`
	NumberOfPeople  int             `json:"numberOfPeople"`
	InsuredPersons  []InsuredPerson `json:"insuredPersons"`
	Cost            float64         `json:"cost"`
	DiscountApplied bool            `json:"discountApplied"`
	Document        string          `json:"document"`
}

// AuthToken is the single persisted session record: at most one exists at
// any time, stored under a fixed key so replacement is one atomic swap.
type AuthToken struct {
	TokenHash   string        `json:"-"` // sha256 of the raw token, never exposed
	PrincipalID int64         `json:"principalId"`
	Kind        PrincipalKind `json:"kind"`
}
