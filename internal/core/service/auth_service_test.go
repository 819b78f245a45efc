package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
)

// --- stubs ---

type stubPrincipalRepo struct {
	byID    map[string]*domain.Principal
	byEmail map[string]*domain.Principal
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{
		byID:    make(map[string]*domain.Principal),
		byEmail: make(map[string]*domain.Principal),
	}
}

func (r *stubPrincipalRepo) add(p *domain.Principal) {
	r.byID[p.ID] = p
	if p.Email != "" {
		r.byEmail[p.Email] = p
	}
}

func (r *stubPrincipalRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	if p, ok := r.byEmail[email]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubPrincipalRepo) FindByID(_ context.Context, id string) (*domain.Principal, error) {
	if p, ok := r.byID[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	if _, exists := r.byEmail[p.Email]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *p
	if clone.ID == "" {
		clone.ID = "id-" + p.Email
	}
	r.add(&clone)
	out := clone
	return &out, nil
}

type stubAdminRepo struct {
	roles map[string]string
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{roles: make(map[string]string)}
}

func (r *stubAdminRepo) FindRole(_ context.Context, userID string) (string, error) {
	if role, ok := r.roles[userID]; ok {
		return role, nil
	}
	return "", domain.ErrNoAdminRecord
}

func (r *stubAdminRepo) Create(_ context.Context, rec *domain.AdminRecord) error {
	if _, exists := r.roles[rec.UserID]; exists {
		return domain.ErrUserExists
	}
	r.roles[rec.UserID] = rec.Role
	return nil
}

// stubOTPRepo mirrors the one-document-per-principal contract of the real
// repository: Replace supersedes, Consume is an atomic match-and-mark.
type stubOTPRepo struct {
	mu     sync.Mutex
	byUser map[string]*domain.OneTimePasscode
}

func newStubOTPRepo() *stubOTPRepo {
	return &stubOTPRepo{byUser: make(map[string]*domain.OneTimePasscode)}
}

func (r *stubOTPRepo) Replace(_ context.Context, otp *domain.OneTimePasscode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *otp
	r.byUser[otp.UserID] = &clone
	return nil
}

func (r *stubOTPRepo) Consume(_ context.Context, userID, code string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	otp := r.byUser[userID]
	if otp == nil || otp.IsUsed || otp.Code != code || !otp.ExpiresAt.After(now) {
		return domain.ErrInvalidOTP
	}
	otp.IsUsed = true
	return nil
}

func (r *stubOTPRepo) active(userID string) *domain.OneTimePasscode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if otp := r.byUser[userID]; otp != nil {
		clone := *otp
		return &clone
	}
	return nil
}

type memRevocation struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemRevocation() *memRevocation {
	return &memRevocation{revoked: make(map[string]bool)}
}

func (m *memRevocation) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = true
	return nil
}

func (m *memRevocation) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenID], nil
}

type recordingDelivery struct {
	mu   sync.Mutex
	jobs []ports.DeliveryJob
}

func (d *recordingDelivery) Deliver(job ports.DeliveryJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
}

func (d *recordingDelivery) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

// --- fixtures ---

type authFixture struct {
	svc        *AuthService
	sessions   *SessionService
	principals *stubPrincipalRepo
	admins     *stubAdminRepo
	otps       *stubOTPRepo
	delivery   *recordingDelivery
}

func newAuthFixture(t *testing.T, otpTTL time.Duration) *authFixture {
	t.Helper()
	principals := newStubPrincipalRepo()
	admins := newStubAdminRepo()
	otps := newStubOTPRepo()
	delivery := &recordingDelivery{}
	sessions := NewSessionService("test-secret", time.Hour, newMemRevocation(), zerolog.Nop())
	svc := NewAuthService(principals, admins, otps, sessions, delivery, otpTTL, zerolog.Nop())
	return &authFixture{
		svc:        svc,
		sessions:   sessions,
		principals: principals,
		admins:     admins,
		otps:       otps,
		delivery:   delivery,
	}
}

func (f *authFixture) addPrincipal(t *testing.T, id, email, password string) *domain.Principal {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	p := &domain.Principal{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "Investor",
	}
	f.principals.add(p)
	return p
}

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// --- tests ---

func TestAuthService_Login_IssuesOTP(t *testing.T) {
	f := newAuthFixture(t, time.Minute)
	f.addPrincipal(t, "u1", "user@example.com", "correct-horse")

	tempID, err := f.svc.Login(context.Background(), "user@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if tempID != "u1" {
		t.Fatalf("expected temp user id u1, got %q", tempID)
	}

	otp := f.otps.active("u1")
	if otp == nil {
		t.Fatalf("no OTP persisted")
	}
	if !sixDigits.MatchString(otp.Code) {
		t.Fatalf("code %q is not 6 digits", otp.Code)
	}
	if otp.IsUsed {
		t.Fatalf("fresh OTP marked used")
	}
	if otp.Channel != domain.ChannelEmail {
		t.Fatalf("expected email channel, got %q", otp.Channel)
	}
	if f.delivery.count() != 1 {
		t.Fatalf("expected 1 delivery job, got %d", f.delivery.count())
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t, time.Minute)
	f.addPrincipal(t, "u1", "user@example.com", "correct-horse")

	if _, err := f.svc.Login(context.Background(), "user@example.com", "battery-staple"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if f.otps.active("u1") != nil {
		t.Fatalf("OTP must not be created on failed login")
	}
	if f.delivery.count() != 0 {
		t.Fatalf("no delivery expected on failed login")
	}
}

func TestAuthService_Login_UnknownEmailIndistinguishable(t *testing.T) {
	f := newAuthFixture(t, time.Minute)
	f.addPrincipal(t, "u1", "user@example.com", "correct-horse")

	_, errUnknown := f.svc.Login(context.Background(), "ghost@example.com", "whatever")
	_, errWrongPw := f.svc.Login(context.Background(), "user@example.com", "wrong")

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) || !errors.Is(errWrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v and %v", errUnknown, errWrongPw)
	}
}

func TestAuthService_OTP_SingleValidity(t *testing.T) {
	f := newAuthFixture(t, time.Minute)
	f.addPrincipal(t, "u1", "user@example.com", "correct-horse")

	var firstCode, lastCode string
	for i := 0; i < 5; i++ {
		if _, err := f.svc.Login(context.Background(), "user@example.com", "correct-horse"); err != nil {
			t.Fatalf("login %d failed: %v", i, err)
		}
		otp := f.otps.active("u1")
		if otp == nil || otp.IsUsed {
			t.Fatalf("issuance %d left no valid OTP", i)
		}
		if firstCode == "" {
			firstCode = otp.Code
		}
		lastCode = otp.Code
	}

	// Only the most recent code verifies; each issuance superseded the last.
	if firstCode != lastCode {
		if err := f.otps.Consume(context.Background(), "u1", firstCode, time.Now().UTC()); !errors.Is(err, domain.ErrInvalidOTP) {
			t.Fatalf("superseded code must be dead, got %v", err)
		}
	}
	if err := f.otps.Consume(context.Background(), "u1", lastCode, time.Now().UTC()); err != nil {
		t.Fatalf("latest code should be valid: %v", err)
	}
}

func TestAuthService_VerifyOTP_OneShot(t *testing.T) {
	f := newAuthFixture(t, time.Minute)
	f.addPrincipal(t, "u1", "user@example.com", "correct-horse")

	if _, err := f.svc.Login(context.Background(), "user@example.com", "correct-horse"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	code := f.otps.active("u1").Code

	if _, err := f.svc.VerifyOTP(context.Background(), "u1", code); err != nil {
		t.Fatalf("first verification failed: %v", err)
	}
	if _, err := f.svc.VerifyOTP(context.Background(), "u1", code); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("replayed code must fail with ErrInvalidOTP, got %v", err)
	}
}

func TestAuthService_VerifyOTP_Expired(t *testing.T) {
	f := newAuthFixture(t, -time.Minute) // codes are born expired
	f.addPrincipal(t, "u1", "user@example.com", "correct-horse")

	if _, err := f.svc.Login(context.Background(), "user@example.com", "correct-horse"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	code := f.otps.active("u1").Code

	if _, err := f.svc.VerifyOTP(context.Background(), "u1", code); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expired code must fail with ErrInvalidOTP, got %v", err)
	}
}

func TestAuthService_VerifyOTP_WrongCode(t *testing.T) {
	f := newAuthFixture(t, time.Minute)
	f.addPrincipal(t, "u1", "user@example.com", "correct-horse")

	if _, err := f.svc.Login(context.Background(), "user@example.com", "correct-horse"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := f.svc.VerifyOTP(context.Background(), "u1", "000000"); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestAuthService_RoleResolution(t *testing.T) {
	f := newAuthFixture(t, time.Minute)
	f.addPrincipal(t, "u1", "investor@example.com", "pw-investor")
	f.addPrincipal(t, "u2", "root@example.com", "pw-superadmin")
	f.admins.roles["u2"] = domain.RoleSuperAdmin

	verify := func(id, email, password string) *ports.VerifiedSession {
		t.Helper()
		if _, err := f.svc.Login(context.Background(), email, password); err != nil {
			t.Fatalf("login %s: %v", email, err)
		}
		session, err := f.svc.VerifyOTP(context.Background(), id, f.otps.active(id).Code)
		if err != nil {
			t.Fatalf("verify %s: %v", email, err)
		}
		return session
	}

	if s := verify("u1", "investor@example.com", "pw-investor"); s.Role != domain.RoleInvestor {
		t.Fatalf("expected investor, got %q", s.Role)
	}
	if s := verify("u2", "root@example.com", "pw-superadmin"); s.Role != domain.RoleSuperAdmin {
		t.Fatalf("expected super_admin, got %q", s.Role)
	}
}

func TestAuthService_EndToEnd_LoginVerifySession(t *testing.T) {
	f := newAuthFixture(t, time.Minute)
	f.addPrincipal(t, "u1", "user@example.com", "correct-horse")

	tempID, err := f.svc.Login(context.Background(), "user@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	session, err := f.svc.VerifyOTP(context.Background(), tempID, f.otps.active(tempID).Code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected session token")
	}

	claims, err := f.sessions.Verify(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("token rejected by authenticator: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "user@example.com" || claims.Role != domain.RoleInvestor {
		t.Fatalf("claims do not round-trip: %+v", claims)
	}

	p, role, err := f.svc.CurrentUser(context.Background(), claims.UserID)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if p.ID != "u1" || role != domain.RoleInvestor {
		t.Fatalf("unexpected current user: %s %s", p.ID, role)
	}
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	f := newAuthFixture(t, time.Minute)
	f.addPrincipal(t, "u1", "user@example.com", "correct-horse")

	if _, err := f.svc.Login(context.Background(), "user@example.com", "correct-horse"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	session, err := f.svc.VerifyOTP(context.Background(), "u1", f.otps.active("u1").Code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	claims, err := f.sessions.Verify(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("token should verify before logout: %v", err)
	}

	if err := f.svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := f.sessions.Verify(context.Background(), session.Token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("revoked token must be rejected, got %v", err)
	}
}

func TestGenerateCode_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !sixDigits.MatchString(code) {
			t.Fatalf("code %q not in 100000-999999", code)
		}
		if code[0] == '0' {
			t.Fatalf("code %q below 100000", code)
		}
	}
}
