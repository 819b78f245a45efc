package ports

import (
	"context"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
)

// VerifiedSession is the outcome of a successful OTP verification.
type VerifiedSession struct {
	Principal *domain.Principal
	Role      string
	Token     string
}

// AuthService implements the login → OTP → session flow.
type AuthService interface {
	// Login verifies credentials and, on success, issues and dispatches a
	// passcode. Returns the principal id the client must echo back to
	// VerifyOTP. Unknown email and wrong password are indistinguishable.
	Login(ctx context.Context, email, password string) (string, error)

	// VerifyOTP consumes the passcode, resolves the principal's role, and
	// issues a signed session token.
	VerifyOTP(ctx context.Context, userID, code string) (*VerifiedSession, error)

	// CurrentUser returns the principal and freshly resolved role for an
	// authenticated session.
	CurrentUser(ctx context.Context, userID string) (*domain.Principal, string, error)

	// Logout revokes the session token id for the remainder of its validity.
	Logout(ctx context.Context, claims *domain.SessionClaims) error
}

// SessionVerifier is the request-gate view of the session service.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*domain.SessionClaims, error)
}

// ProvisionInput carries the fields an administrator supplies when creating
// an account.
type ProvisionInput struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
}

// AccountService provisions principals. Investors are created by admins,
// administrative accounts by super-admins only.
type AccountService interface {
	ProvisionInvestor(ctx context.Context, in ProvisionInput) (*domain.Principal, error)
	ProvisionAdmin(ctx context.Context, in ProvisionInput, role string) (*domain.Principal, error)
}
