package ports

import (
	"context"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
)

// PrincipalRepository defines persistence for authenticatable accounts.
type PrincipalRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
}

// AdminRepository defines persistence for administrative-tier membership.
// FindRole returns domain.ErrNoAdminRecord when the principal has none.
type AdminRepository interface {
	FindRole(ctx context.Context, userID string) (string, error)
	Create(ctx context.Context, rec *domain.AdminRecord) error
}
