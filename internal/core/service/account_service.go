package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
)

// AccountService provisions principals. This is the only way accounts come
// into existence; there is no self-registration endpoint.
type AccountService struct {
	principals ports.PrincipalRepository
	admins     ports.AdminRepository
}

func NewAccountService(principals ports.PrincipalRepository, admins ports.AdminRepository) *AccountService {
	return &AccountService{principals: principals, admins: admins}
}

// ProvisionInvestor creates an investor principal with a bcrypt-hashed
// password. Duplicate email surfaces as domain.ErrUserExists.
func (s *AccountService) ProvisionInvestor(ctx context.Context, in ports.ProvisionInput) (*domain.Principal, error) {
	return s.createPrincipal(ctx, in)
}

// ProvisionAdmin creates a principal and its administrative-tier membership
// record in one call. Only admin and super_admin are valid tiers.
func (s *AccountService) ProvisionAdmin(ctx context.Context, in ports.ProvisionInput, role string) (*domain.Principal, error) {
	if role != domain.RoleAdmin && role != domain.RoleSuperAdmin {
		return nil, domain.ErrInvalidCredentials
	}

	p, err := s.createPrincipal(ctx, in)
	if err != nil {
		return nil, err
	}

	rec := &domain.AdminRecord{
		UserID:    p.ID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.admins.Create(ctx, rec); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *AccountService) createPrincipal(ctx context.Context, in ports.ProvisionInput) (*domain.Principal, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Principal{
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.principals.Create(ctx, p)
}
