package services

import (
	"context"
	"sync"

	"github.com/ohalushka/polis/core"
)

// FakeStorage is a test-only fake implementing core.StorageAdapter. It
// stores rows in maps and exposes error fields for behavior injection.
type FakeStorage struct {
	mu       sync.RWMutex
	users    map[int64]*core.User
	partners map[int64]*core.Partner
	token    *core.AuthToken
	nextID   int64

	createErr error
	getErr    error
	appendErr error
	tokenErr  error
}

var _ core.StorageAdapter = (*FakeStorage)(nil)

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		users:    make(map[int64]*core.User),
		partners: make(map[int64]*core.Partner),
	}
}

func (f *FakeStorage) CreateUser(ctx context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return core.ErrUserExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *FakeStorage) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *FakeStorage) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeStorage) AppendUserInsurance(ctx context.Context, id int64, ins core.Insurance) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	u.Insurances = append(u.Insurances, ins)
	cp := *u
	cp.Insurances = append([]core.Insurance(nil), u.Insurances...)
	return &cp, nil
}

func (f *FakeStorage) ListUsers(ctx context.Context) ([]*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([]*core.User, 0, len(f.users))
	for i := int64(1); i <= f.nextID; i++ {
		if u, ok := f.users[i]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *FakeStorage) CreatePartner(ctx context.Context, p *core.Partner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.partners {
		if existing.CompanyEmail == p.CompanyEmail {
			return core.ErrPartnerExists
		}
	}
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.partners[p.ID] = &cp
	return nil
}

func (f *FakeStorage) GetPartnerByID(ctx context.Context, id int64) (*core.Partner, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.partners[id]
	if !ok {
		return nil, core.ErrPartnerNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *FakeStorage) GetPartnerByEmail(ctx context.Context, companyEmail string) (*core.Partner, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.partners {
		if p.CompanyEmail == companyEmail {
			cp := *p
			return &cp, nil
		}
	}
	return nil, core.ErrPartnerNotFound
}

func (f *FakeStorage) AppendPartnerInsurance(ctx context.Context, id int64, ins core.Insurance) (*core.Partner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	p, ok := f.partners[id]
	if !ok {
		return nil, core.ErrPartnerNotFound
	}
	p.Insurances = append(p.Insurances, ins)
	cp := *p
	cp.Insurances = append([]core.Insurance(nil), p.Insurances...)
	return &cp, nil
}

func (f *FakeStorage) ListPartners(ctx context.Context) ([]*core.Partner, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([]*core.Partner, 0, len(f.partners))
	for i := int64(1); i <= f.nextID; i++ {
		if p, ok := f.partners[i]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *FakeStorage) ReplaceToken(ctx context.Context, t *core.AuthToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenErr != nil {
		return f.tokenErr
	}
	cp := *t
	f.token = &cp
	return nil
}

func (f *FakeStorage) GetToken(ctx context.Context) (*core.AuthToken, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	if f.token == nil {
		return nil, core.ErrTokenNotFound
	}
	cp := *f.token
	return &cp, nil
}

func (f *FakeStorage) ClearToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenErr != nil {
		return f.tokenErr
	}
	f.token = nil
	return nil
}

// TokenCount reports how many token rows exist (0 or 1). Tests use it to
// pin the singleton invariant.
func (f *FakeStorage) TokenCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.token == nil {
		return 0
	}
	return 1
}
