package core

// Principal is the tagged union over the two account kinds. Exactly one of
// User/Partner is non-nil and matches Kind.
type Principal struct {
	Kind    PrincipalKind `json:"kind"`
	User    *User         `json:"user,omitempty"`
	Partner *Partner      `json:"partner,omitempty"`
}

func UserPrincipal(u *User) *Principal {
	return &Principal{Kind: KindUser, User: u}
}

func PartnerPrincipal(p *Partner) *Principal {
	return &Principal{Kind: KindPartner, Partner: p}
}

// PrincipalID returns the owning row id regardless of kind.
func (p *Principal) PrincipalID() int64 {
	if p.Kind == KindPartner {
		return p.Partner.ID
	}
	return p.User.ID
}

// DisplayName is the name printed on policy documents: the username for
// individuals, the company name for partners.
func (p *Principal) DisplayName() string {
	if p.Kind == KindPartner {
		return p.Partner.CompanyName
	}
	return p.User.Username
}

// Corporate reports whether the principal qualifies for the partner
// discount.
func (p *Principal) Corporate() bool {
	return p.Kind == KindPartner
}

// Insurances returns the owned policies in purchase order.
func (p *Principal) Insurances() []Insurance {
	if p.Kind == KindPartner {
		return p.Partner.Insurances
	}
	return p.User.Insurances
}
