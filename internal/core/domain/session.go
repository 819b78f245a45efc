package domain

import "time"

// SessionClaims is the decoded content of a signed session token. The role is
// fixed at issuance for the token's whole life; only revocation of the token
// id or expiry ends a session early.
type SessionClaims struct {
	UserID    string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}
