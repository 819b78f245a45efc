package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridiancredit/investor-portal/internal/api/metrics"
	"github.com/meridiancredit/investor-portal/internal/core/domain"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
)

const defaultOTPTTL = 10 * time.Minute

// AuthService implements the credential → OTP → session flow.
type AuthService struct {
	principals ports.PrincipalRepository
	admins     ports.AdminRepository
	otps       ports.OTPRepository
	sessions   *SessionService
	delivery   ports.CodeDelivery
	otpTTL     time.Duration
	log        zerolog.Logger
}

func NewAuthService(
	principals ports.PrincipalRepository,
	admins ports.AdminRepository,
	otps ports.OTPRepository,
	sessions *SessionService,
	delivery ports.CodeDelivery,
	otpTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if otpTTL == 0 {
		otpTTL = defaultOTPTTL
	}
	return &AuthService{
		principals: principals,
		admins:     admins,
		otps:       otps,
		sessions:   sessions,
		delivery:   delivery,
		otpTTL:     otpTTL,
		log:        log,
	}
}

// Login verifies email+password and, on success, issues a passcode and hands
// it to the delivery dispatcher. An unknown email and a wrong password both
// return domain.ErrInvalidCredentials so callers cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidCredentials
	}

	p, err := s.principals.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if p.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidCredentials
	}

	if _, err := s.issueOTP(ctx, p); err != nil {
		return "", err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("accepted").Inc()
	return p.ID, nil
}

// issueOTP generates, persists, and dispatches a fresh passcode. The upsert
// keyed by principal id supersedes any outstanding code in the same write.
func (s *AuthService) issueOTP(ctx context.Context, p *domain.Principal) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	channel := domain.ChannelEmail
	destination := p.Email
	if destination == "" {
		channel = domain.ChannelPhone
		destination = p.Phone
	}

	now := time.Now().UTC()
	otp := &domain.OneTimePasscode{
		UserID:    p.ID,
		Code:      code,
		Channel:   channel,
		IsUsed:    false,
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	}
	if err := s.otps.Replace(ctx, otp); err != nil {
		return "", err
	}

	// Operator fallback: the code is always retrievable from the log even
	// when the delivery provider is down or unconfigured.
	s.log.Info().
		Str("user_id", p.ID).
		Str("channel", channel).
		Str("code", code).
		Msg("passcode issued")

	metrics.OTPIssuedTotal.WithLabelValues(channel).Inc()

	if s.delivery != nil {
		s.delivery.Deliver(ports.DeliveryJob{
			UserID:      p.ID,
			Channel:     channel,
			Destination: destination,
			Code:        code,
		})
	}

	return code, nil
}

// VerifyOTP consumes the passcode, resolves the principal's current role,
// and issues a signed session token. Wrong, expired, and replayed codes are
// indistinguishable to the caller.
func (s *AuthService) VerifyOTP(ctx context.Context, userID, code string) (*ports.VerifiedSession, error) {
	if userID == "" || code == "" {
		metrics.OTPValidatedTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidOTP
	}

	if err := s.otps.Consume(ctx, userID, code, time.Now().UTC()); err != nil {
		if errors.Is(err, domain.ErrInvalidOTP) {
			metrics.OTPValidatedTotal.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}

	p, err := s.principals.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveRole(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(p, role)
	if err != nil {
		return nil, err
	}

	metrics.OTPValidatedTotal.WithLabelValues("accepted").Inc()
	s.log.Info().Str("user_id", p.ID).Str("role", role).Msg("session issued")

	return &ports.VerifiedSession{Principal: p, Role: role, Token: token}, nil
}

// CurrentUser re-fetches the principal and re-resolves the role for an
// authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.Principal, string, error) {
	p, err := s.principals.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	role, err := s.resolveRole(ctx, p.ID)
	if err != nil {
		return nil, "", err
	}
	return p, role, nil
}

// Logout revokes the session's token id. A missing or expired session is a
// no-op, not an error.
func (s *AuthService) Logout(ctx context.Context, claims *domain.SessionClaims) error {
	if claims == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims); err != nil {
		return err
	}
	metrics.SessionsRevokedTotal.Inc()
	return nil
}

// resolveRole maps admins-collection membership to a role tier; absence
// means investor.
func (s *AuthService) resolveRole(ctx context.Context, userID string) (string, error) {
	role, err := s.admins.FindRole(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoAdminRecord) {
			return domain.RoleInvestor, nil
		}
		return "", err
	}
	return role, nil
}

// generateCode draws a 6-digit code uniformly from 100000–999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return (n.Add(n, big.NewInt(100000))).String(), nil
}
