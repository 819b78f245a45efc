package ports

import (
	"context"
	"time"
)

// RevocationStore tracks session token ids invalidated before their natural
// expiry. Entries only need to live as long as the token they shadow.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
