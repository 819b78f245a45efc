package domain

import "time"

// Delivery channels for one-time passcodes.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// OneTimePasscode is a short-lived 6-digit credential proving possession of
// the registered email or phone. At most one document exists per principal:
// issuing a new code replaces the previous one, so a superseded code is dead
// the instant its successor is persisted.
type OneTimePasscode struct {
	UserID    string    `json:"user_id"`
	Code      string    `json:"code"`
	Channel   string    `json:"channel"`
	IsUsed    bool      `json:"is_used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
