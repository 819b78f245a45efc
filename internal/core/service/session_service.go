package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// SessionService issues and verifies signed session tokens. Tokens are
// stateless HS256 JWTs; the only server-side state is the revocation list,
// consulted on every verification so that logout ends a session early.
type SessionService struct {
	secret  []byte
	ttl     time.Duration
	revoked ports.RevocationStore
	log     zerolog.Logger
}

func NewSessionService(secret string, ttl time.Duration, revoked ports.RevocationStore, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{secret: []byte(secret), ttl: ttl, revoked: revoked, log: log}
}

// TTL reports the configured token lifetime, used to size the cookie max-age.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token embedding the principal's id, email, and the role
// resolved at this moment. The role rides the token for its whole life.
func (s *SessionService) Issue(p *domain.Principal, role string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   p.ID,
		"email": p.Email,
		"role":  role,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token and checks it against the revocation
// list. Signature, expiry, and revocation failures all collapse to
// domain.ErrSessionInvalid.
func (s *SessionService) Verify(ctx context.Context, token string) (*domain.SessionClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrSessionInvalid
	}

	sc := &domain.SessionClaims{}
	sc.UserID, _ = claims["sub"].(string)
	sc.Email, _ = claims["email"].(string)
	sc.Role, _ = claims["role"].(string)
	sc.TokenID, _ = claims["jti"].(string)
	if exp, e := claims.GetExpirationTime(); e == nil && exp != nil {
		sc.ExpiresAt = exp.Time
	}
	if sc.UserID == "" || sc.Role == "" {
		return nil, domain.ErrSessionInvalid
	}

	if sc.TokenID != "" && s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, sc.TokenID)
		if err != nil {
			// Revocation store outage fails open: availability over strictness.
			s.log.Warn().Err(err).Msg("revocation check failed, accepting token")
		} else if revoked {
			return nil, domain.ErrSessionInvalid
		}
	}

	return sc, nil
}

// Revoke blacklists the token id for the remainder of its validity window.
func (s *SessionService) Revoke(ctx context.Context, claims *domain.SessionClaims) error {
	if claims.TokenID == "" || s.revoked == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.TokenID, ttl)
}
