package ports

import (
	"context"
	"time"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
)

// OTPRepository persists the single active passcode per principal.
type OTPRepository interface {
	// Replace upserts the active passcode document keyed by principal id.
	// One operation both invalidates any outstanding code and stores the
	// new one; there is no separate invalidation step to race against.
	Replace(ctx context.Context, otp *domain.OneTimePasscode) error

	// Consume atomically marks the passcode used when principal id and code
	// match an unused, unexpired document. Any non-match — wrong code,
	// expired, already consumed — returns domain.ErrInvalidOTP.
	Consume(ctx context.Context, userID, code string, now time.Time) error
}
