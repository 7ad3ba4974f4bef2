package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/roshanmgr/venue-booking/internal/repository"
	"github.com/roshanmgr/venue-booking/internal/service"
)

// AuthHandler exposes the signup/login/refresh/logout endpoints and the
// password-reset flow.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler { return &AuthHandler{Auth: a} }

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"` // ATTENDEE | PARTNER
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	Jti          string `json:"jti"`
	SessionID    string `json:"sessionId"`
	RefreshToken string `json:"refreshToken"`
}
type resetRequestReq struct {
	Email string `json:"email"`
}
type verifyOTPReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
type resetPasswordReq struct {
	Email    string `json:"email"`
	OTPCode  string `json:"otpCode"`
	Password string `json:"password"`
}

// Signup registers a principal.  ADMIN cannot be self-assigned; the service
// downgrades it to ATTENDEE.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	id, err := h.Auth.Signup(c.Request().Context(), req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Login verifies credentials and returns the token set.  Bad credentials
// always yield the same generic 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
		case errors.Is(err, service.ErrPartnerPending):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account pending approval"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// Refresh rotates a session given the (jti, sessionId, refreshToken) triple.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}
	res, err := h.Auth.Refresh(c.Request().Context(), req.Jti, req.SessionID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// Logout tears the session down.  It is idempotent: an unknown or already
// revoked token still gets a 200.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	_ = h.Auth.Logout(c.Request().Context(), req.Jti, req.SessionID, req.RefreshToken)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// RequestPasswordReset generates and mails an OTP.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req resetRequestReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	if err := h.Auth.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no account for that email"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "otp sent"})
}

// VerifyOTP checks a reset code without consuming it.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Auth.VerifyOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		if errors.Is(err, service.ErrInvalidOTP) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired otp"})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no account for that email"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verify failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "otp valid"})
}

// ResetPassword consumes a valid OTP and replaces the password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Auth.ResetPassword(c.Request().Context(), req.Email, req.OTPCode, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidOTP) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired otp"})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no account for that email"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
