package handler

import "github.com/meridiancredit/investor-portal/internal/core/domain"

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message    string `json:"message"`
	TempUserID string `json:"tempUserId"`
}

type verifyOTPRequest struct {
	TempUserID string `json:"tempUserId" validate:"required"`
	Code       string `json:"code" validate:"required,len=6,numeric"`
}

type sessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type verifyOTPResponse struct {
	User  sessionUser `json:"user"`
	Token string      `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func newSessionUser(p *domain.Principal, role string) sessionUser {
	return sessionUser{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      role,
	}
}
