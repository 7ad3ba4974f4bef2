package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshanmgr/venue-booking/internal/auth"
	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/repository"
	"github.com/roshanmgr/venue-booking/internal/utils"
)

// ----- in-memory stores -----

type stubUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]model.Principal
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{nextID: 1, users: map[uint64]model.Principal{}}
}

func (s *stubUserStore) add(email, password string, role model.Role, status string) model.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, _ := utils.HashPassword(password, 4)
	u := model.Principal{ID: s.nextID, Email: email, PasswordHash: hash, Role: role, Status: status, FullName: email}
	s.users[u.ID] = u
	s.nextID++
	return u
}

func (s *stubUserStore) Create(ctx context.Context, email, password, fullName string, role model.Role, cost int) (uint64, error) {
	u := s.add(email, password, role, model.StatusActive)
	return u.ID, nil
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (model.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *stubUserStore) GetByID(ctx context.Context, id uint64) (model.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return model.Principal{}, repository.ErrNotFound
}

func (s *stubUserStore) SetOTP(ctx context.Context, userID uint64, code string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.OTPCode = &code
	u.OTPExpiry = &expiry
	s.users[userID] = u
	return nil
}

func (s *stubUserStore) UpdatePassword(ctx context.Context, userID uint64, password string, cost int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.OTPCode = nil
	u.OTPExpiry = nil
	s.users[userID] = u
	return nil
}

type stubSessionStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{nextID: 1, rows: map[uint64]model.Session{}}
}

func (s *stubSessionStore) countForUser(userID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n
}

func (s *stubSessionStore) Create(ctx context.Context, userID uint64, sessionID, jti string, expiresAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret := utils.NewRefreshSecret()
	s.rows[s.nextID] = model.Session{
		ID: s.nextID, UserID: userID, SessionID: sessionID, Jti: jti,
		TokenHash: utils.HashSecret(secret), ExpiresAt: expiresAt,
	}
	s.nextID++
	return secret, nil
}

func (s *stubSessionStore) FindByRefreshSecret(ctx context.Context, secret string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash := utils.HashSecret(secret)
	for _, r := range s.rows {
		if r.TokenHash == hash {
			return r, nil
		}
	}
	return model.Session{}, repository.ErrNotFound
}

func (s *stubSessionStore) FindActive(ctx context.Context, jti string, userID uint64, sessionID string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Jti == jti && r.UserID == userID && r.SessionID == sessionID {
			return r, nil
		}
	}
	return model.Session{}, repository.ErrNotFound
}

func (s *stubSessionStore) Rotate(ctx context.Context, old model.Session, newJti string, expiresAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[old.ID]; !ok {
		return "", repository.ErrNotFound
	}
	delete(s.rows, old.ID)
	secret := utils.NewRefreshSecret()
	s.rows[s.nextID] = model.Session{
		ID: s.nextID, UserID: old.UserID, SessionID: old.SessionID, Jti: newJti,
		TokenHash: utils.HashSecret(secret), ExpiresAt: expiresAt,
	}
	s.nextID++
	return secret, nil
}

func (s *stubSessionStore) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

func (s *stubSessionStore) RevokeAllForUser(ctx context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.rows {
		if r.UserID == userID {
			delete(s.rows, id)
		}
	}
	return nil
}

type stubMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *stubMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func newAuthFixture() (*AuthService, *stubUserStore, *stubSessionStore) {
	users := newStubUserStore()
	sessions := newStubSessionStore()
	codec := auth.NewTokenCodec("test-secret")
	svc := NewAuthService(users, sessions, codec, &stubMailer{}, 4)
	return svc, users, sessions
}

// ----- tests -----

func TestLoginIssuesWorkingTokenSet(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add("eva@example.com", "pw123", model.RoleAttendee, model.StatusActive)

	res, err := svc.Login(context.Background(), "eva@example.com", "pw123")
	require.NoError(t, err)
	assert.True(t, svc.Codec.Validate(res.AccessToken))
	assert.Equal(t, "ATTENDEE", res.Role)
	assert.NotEmpty(t, res.RefreshToken)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, "/", res.Redirect)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add("eva@example.com", "pw123", model.RoleAttendee, model.StatusActive)

	_, err := svc.Login(context.Background(), "eva@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsPendingPartner(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add("p@example.com", "pw123", model.RolePartner, model.StatusPending)

	_, err := svc.Login(context.Background(), "p@example.com", "pw123")
	assert.ErrorIs(t, err, ErrPartnerPending)
}

func TestLoginKeepsSingleActiveSession(t *testing.T) {
	svc, users, sessions := newAuthFixture()
	u := users.add("eva@example.com", "pw123", model.RoleAttendee, model.StatusActive)

	first, err := svc.Login(context.Background(), "eva@example.com", "pw123")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "eva@example.com", "pw123")
	require.NoError(t, err)

	assert.Equal(t, 1, sessions.countForUser(u.ID))

	// The first login's refresh token must be dead.
	jti := svc.Codec.Jti(first.AccessToken)
	_, err = svc.Refresh(context.Background(), jti, first.SessionID, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// The second login's still works.
	jti2 := svc.Codec.Jti(second.AccessToken)
	_, err = svc.Refresh(context.Background(), jti2, second.SessionID, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add("eva@example.com", "pw123", model.RoleAttendee, model.StatusActive)

	login, err := svc.Login(context.Background(), "eva@example.com", "pw123")
	require.NoError(t, err)
	jti := svc.Codec.Jti(login.AccessToken)

	rotated, err := svc.Refresh(context.Background(), jti, login.SessionID, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.NotEqual(t, jti, rotated.Jti)

	// Re-submitting the pre-rotation triple fails.
	_, err = svc.Refresh(context.Background(), jti, login.SessionID, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// The rotated triple keeps working within the same session id.
	_, err = svc.Refresh(context.Background(), rotated.Jti, login.SessionID, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsMismatchedTriple(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add("eva@example.com", "pw123", model.RoleAttendee, model.StatusActive)

	login, err := svc.Login(context.Background(), "eva@example.com", "pw123")
	require.NoError(t, err)

	// Right refresh secret, wrong jti and wrong session id.
	_, err = svc.Refresh(context.Background(), "bogus-jti", login.SessionID, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	jti := svc.Codec.Jti(login.AccessToken)
	_, err = svc.Refresh(context.Background(), jti, "bogus-session", login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add("eva@example.com", "pw123", model.RoleAttendee, model.StatusActive)

	login, err := svc.Login(context.Background(), "eva@example.com", "pw123")
	require.NoError(t, err)

	// Move the service clock past the refresh TTL.
	svc.now = func() time.Time { return time.Now().Add(RefreshTTL + time.Hour) }
	jti := svc.Codec.Jti(login.AccessToken)
	_, err = svc.Refresh(context.Background(), jti, login.SessionID, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, users, sessions := newAuthFixture()
	u := users.add("eva@example.com", "pw123", model.RoleAttendee, model.StatusActive)

	login, err := svc.Login(context.Background(), "eva@example.com", "pw123")
	require.NoError(t, err)
	jti := svc.Codec.Jti(login.AccessToken)

	require.NoError(t, svc.Logout(context.Background(), jti, login.SessionID, login.RefreshToken))
	assert.Equal(t, 0, sessions.countForUser(u.ID))

	// Second logout with the now-invalid token still succeeds.
	require.NoError(t, svc.Logout(context.Background(), jti, login.SessionID, login.RefreshToken))
}

func TestPasswordResetFlow(t *testing.T) {
	svc, users, _ := newAuthFixture()
	u := users.add("eva@example.com", "pw123", model.RoleAttendee, model.StatusActive)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "eva@example.com"))
	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OTPCode)

	assert.ErrorIs(t, svc.VerifyOTP(context.Background(), "eva@example.com", "000000x"), ErrInvalidOTP)
	require.NoError(t, svc.VerifyOTP(context.Background(), "eva@example.com", *stored.OTPCode))

	require.NoError(t, svc.ResetPassword(context.Background(), "eva@example.com", *stored.OTPCode, "newpw"))
	_, err = svc.Login(context.Background(), "eva@example.com", "newpw")
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), "eva@example.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestExpiredOTPRejected(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add("eva@example.com", "pw123", model.RoleAttendee, model.StatusActive)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "eva@example.com"))
	u, err := users.GetByEmail(context.Background(), "eva@example.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(OTPTTL + time.Minute) }
	assert.ErrorIs(t, svc.VerifyOTP(context.Background(), "eva@example.com", *u.OTPCode), ErrInvalidOTP)
}
