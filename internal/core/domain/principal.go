package domain

import "time"

// Role tiers, resolved by membership lookup against the admins collection.
// A principal absent from that collection is an investor.
const (
	RoleInvestor   = "investor"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Principal models an account capable of authenticating. Accounts are
// provisioned by an administrator; there is no self-registration.
type Principal struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminRecord marks a principal as belonging to an administrative tier.
type AdminRecord struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
