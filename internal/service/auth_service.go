// Package service holds the business logic between handlers and
// repositories: the auth session state machine, the notification fan-out
// router and the post-commit side-effect runner.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roshanmgr/venue-booking/internal/auth"
	"github.com/roshanmgr/venue-booking/internal/model"
	"github.com/roshanmgr/venue-booking/internal/repository"
	"github.com/roshanmgr/venue-booking/internal/utils"
)

// RefreshTTL is the lifetime of a refresh session, applied at creation and
// again at every rotation.
const RefreshTTL = 7 * 24 * time.Hour

// OTPTTL bounds how long a password-reset code stays usable.
const OTPTTL = 10 * time.Minute

// Sentinel errors surfaced to handlers.  Messages stay generic on purpose:
// the client never learns which check failed.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPartnerPending     = errors.New("partner account pending approval")
	ErrInvalidRefresh     = errors.New("invalid or expired refresh token")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
)

// UserStore is the slice of UserRepo the auth service needs.
type UserStore interface {
	Create(ctx context.Context, email, password, fullName string, role model.Role, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.Principal, error)
	GetByID(ctx context.Context, id uint64) (model.Principal, error)
	SetOTP(ctx context.Context, userID uint64, code string, expiry time.Time) error
	UpdatePassword(ctx context.Context, userID uint64, password string, cost int) error
}

// SessionStore is the slice of SessionRepo the auth service needs.
type SessionStore interface {
	Create(ctx context.Context, userID uint64, sessionID, jti string, expiresAt time.Time) (string, error)
	FindByRefreshSecret(ctx context.Context, secret string) (model.Session, error)
	FindActive(ctx context.Context, jti string, userID uint64, sessionID string) (model.Session, error)
	Rotate(ctx context.Context, old model.Session, newJti string, expiresAt time.Time) (string, error)
	Delete(ctx context.Context, id uint64) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// Mailer delivers mail best-effort.  Failures are logged, never propagated.
type Mailer interface {
	Send(to, subject, body string) error
}

// AuthService orchestrates login, refresh, logout and the password-reset
// flow.  The now function is injectable for tests and defaults to time.Now.
type AuthService struct {
	Users      UserStore
	Sessions   SessionStore
	Codec      *auth.TokenCodec
	Mail       Mailer
	BcryptCost int
	now        func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, codec *auth.TokenCodec, mail Mailer, bcryptCost int) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, Codec: codec, Mail: mail, BcryptCost: bcryptCost}
}

func (s *AuthService) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// LoginResult is returned to the client on a successful login.
type LoginResult struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
	SessionID    string `json:"sessionId"`
	Redirect     string `json:"redirect"`
}

// RefreshResult is returned on a successful rotation.
type RefreshResult struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Jti          string `json:"jti"`
}

// Signup registers a principal.  ADMIN is never self-assignable; an unknown
// or missing role defaults to ATTENDEE.
func (s *AuthService) Signup(ctx context.Context, email, password, fullName, role string) (uint64, error) {
	r, err := model.ParseRole(role)
	if err != nil || r == model.RoleAdmin {
		r = model.RoleAttendee
	}
	return s.Users.Create(ctx, email, password, fullName, r, s.BcryptCost)
}

// Login verifies credentials and opens a fresh session.  All prior sessions
// of the user are revoked first, so at most one live session per user exists
// at any time.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if u.Role == model.RolePartner && strings.EqualFold(u.Status, model.StatusPending) {
		return LoginResult{}, ErrPartnerPending
	}

	if err := s.Sessions.RevokeAllForUser(ctx, u.ID); err != nil {
		return LoginResult{}, err
	}
	token, jti, err := s.Codec.Issue(u.Email, u.Role, u.ID)
	if err != nil {
		return LoginResult{}, err
	}
	sessionID := uuid.NewString()
	refresh, err := s.Sessions.Create(ctx, u.ID, sessionID, jti, s.clock().Add(RefreshTTL))
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		AccessToken:  token,
		RefreshToken: refresh,
		Role:         string(u.Role),
		SessionID:    sessionID,
		Redirect:     redirectFor(u.Role),
	}, nil
}

func redirectFor(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return "/admin/dashboard"
	case model.RolePartner:
		return "/partner/dashboard"
	case model.RoleAttendee:
		return "/"
	}
	return "/"
}

// Refresh rotates a session.  The presented secret locates the row; the
// user id re-derived from that row plus the caller's jti and session id must
// then match the same row again, which defeats replay of a stale secret
// against a rotated session.
func (s *AuthService) Refresh(ctx context.Context, jti, sessionID, refreshSecret string) (RefreshResult, error) {
	sess, err := s.Sessions.FindByRefreshSecret(ctx, refreshSecret)
	if err != nil {
		return RefreshResult{}, ErrInvalidRefresh
	}
	active, err := s.Sessions.FindActive(ctx, jti, sess.UserID, sessionID)
	if err != nil || active.ID != sess.ID || active.Expired(s.clock()) {
		return RefreshResult{}, ErrInvalidRefresh
	}

	u, err := s.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		return RefreshResult{}, ErrInvalidRefresh
	}
	token, newJti, err := s.Codec.Issue(u.Email, u.Role, u.ID)
	if err != nil {
		return RefreshResult{}, err
	}
	newSecret, err := s.Sessions.Rotate(ctx, active, newJti, s.clock().Add(RefreshTTL))
	if err != nil {
		// Lost a rotation race; the caller must log in again.
		return RefreshResult{}, ErrInvalidRefresh
	}
	return RefreshResult{AccessToken: token, RefreshToken: newSecret, Jti: newJti}, nil
}

// Logout deletes the matching session if one exists.  It is idempotent and
// always succeeds from the caller's perspective; the access token itself
// stays cryptographically valid until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, jti, sessionID, refreshSecret string) error {
	sess, err := s.Sessions.FindByRefreshSecret(ctx, refreshSecret)
	if err != nil {
		return nil
	}
	active, err := s.Sessions.FindActive(ctx, jti, sess.UserID, sessionID)
	if err != nil || active.ID != sess.ID {
		return nil
	}
	if err := s.Sessions.Delete(ctx, active.ID); err != nil {
		log.Printf("auth: delete session %d failed: %v", active.ID, err)
	}
	return nil
}

// RequestPasswordReset generates an OTP for the account and mails it.  Mail
// delivery is fire-and-forget: a transport failure is logged and the OTP
// stays valid.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	code, err := utils.NewOTP()
	if err != nil {
		return err
	}
	if err := s.Users.SetOTP(ctx, u.ID, code, s.clock().Add(OTPTTL)); err != nil {
		return err
	}
	go func(to, code string) {
		body := "Your password reset code is " + code + ". It expires in 10 minutes."
		if err := s.Mail.Send(to, "Password reset code", body); err != nil {
			log.Printf("auth: otp mail to %s failed: %v", to, err)
		}
	}(u.Email, code)
	return nil
}

// VerifyOTP checks a reset code without consuming it.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.OTPCode == nil || u.OTPExpiry == nil || *u.OTPCode != otp || s.clock().After(*u.OTPExpiry) {
		return ErrInvalidOTP
	}
	return nil
}

// ResetPassword consumes a valid OTP and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, email, otp, password string) error {
	if err := s.VerifyOTP(ctx, email, otp); err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, u.ID, password, s.BcryptCost)
}
