package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ohalushka/polis/core"
)

// AuthService handles registration and account listing. Login and logout
// live on the SessionManager, which owns the token row.
type AuthService struct {
	storage   core.StorageAdapter
	passwords core.PasswordHandler
	log       *slog.Logger
}

func NewAuthService(storage core.StorageAdapter, passwords core.PasswordHandler, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{storage: storage, passwords: passwords, log: log}
}

// RegisterUserInput contains the data needed to register an individual
// customer.
type RegisterUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser creates an individual account. The email must be unused.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterUserInput) (*core.User, error) {
	if input.Email == "" {
		return nil, core.NewValidationError("email", "required")
	}
	if input.Password == "" {
		return nil, core.NewValidationError("password", "required")
	}

	existing, err := s.storage.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, core.ErrUserExists
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &core.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", "userId", user.ID)
	return user, nil
}

// RegisterPartnerInput contains the data needed to register a corporate
// partner.
type RegisterPartnerInput struct {
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
	CompanyEmail  string `json:"companyEmail"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
}

// RegisterPartner creates a corporate account. The company email must be
// unused.
func (s *AuthService) RegisterPartner(ctx context.Context, input RegisterPartnerInput) (*core.Partner, error) {
	if input.CompanyEmail == "" {
		return nil, core.NewValidationError("companyEmail", "required")
	}
	if input.Password == "" {
		return nil, core.NewValidationError("password", "required")
	}

	existing, err := s.storage.GetPartnerByEmail(ctx, input.CompanyEmail)
	if err != nil && !errors.Is(err, core.ErrPartnerNotFound) {
		return nil, fmt.Errorf("failed to check existing partner: %w", err)
	}
	if existing != nil {
		return nil, core.ErrPartnerExists
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	partner := &core.Partner{
		CompanyName:   input.CompanyName,
		ContactPerson: input.ContactPerson,
		CompanyEmail:  input.CompanyEmail,
		Phone:         input.Phone,
		PasswordHash:  hash,
	}
	if err := s.storage.CreatePartner(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}

	s.log.Info("partner registered", "partnerId", partner.ID)
	return partner, nil
}

// ListUsers returns all registered users.
func (s *AuthService) ListUsers(ctx context.Context) ([]*core.User, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListPartners returns all registered partners.
func (s *AuthService) ListPartners(ctx context.Context) ([]*core.Partner, error) {
	partners, err := s.storage.ListPartners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}
