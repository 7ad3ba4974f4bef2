// Package auth implements the access token codec.  Tokens are HS256 JWTs
// carrying the subject email, role, user id and a unique jti that binds the
// token to its refresh session.  The signing key is held by the codec
// instance injected where needed; there is no package-level secret.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/roshanmgr/venue-booking/internal/model"
)

// AccessTTL is the lifetime of an issued access token.
const AccessTTL = 10 * time.Hour

// Claims are the fields recovered from a decoded access token.
type Claims struct {
	Subject string
	Role    model.Role
	UserID  uint64
	Jti     string
}

// TokenCodec signs and verifies access tokens.  The now function exists so
// tests can issue tokens in the past; production construction leaves it nil
// and time.Now is used.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewTokenCodec returns a codec signing with the given secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// NewTokenCodecAt is NewTokenCodec with an explicit clock.
func NewTokenCodecAt(secret string, now func() time.Time) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), now: now}
}

func (tc *TokenCodec) clock() time.Time {
	if tc.now != nil {
		return tc.now().UTC()
	}
	return time.Now().UTC()
}

// Issue builds and signs an access token for the user.  It returns the
// compact token string together with the fresh jti so the caller can bind a
// refresh session to this exact issuance.
func (tc *TokenCodec) Issue(email string, role model.Role, userID uint64) (string, string, error) {
	now := tc.clock()
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": string(role),
		"uid":  userID,
		"jti":  jti,
		"iat":  now.Unix(),
		"exp":  now.Add(AccessTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tc.secret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// Validate reports whether the token's signature verifies and it has not
// expired.  Malformed input, a bad signature and expiry all collapse to
// false; the caller learns nothing about which check failed.
func (tc *TokenCodec) Validate(token string) bool {
	tok, err := tc.parse(token)
	return err == nil && tok.Valid
}

// Decode extracts the claims from a structurally valid token.  It does not
// check expiry: the request path must call Validate first and only then
// Decode.  The lax parse is deliberate so jti extraction works on tokens the
// codec itself issued regardless of age.
func (tc *TokenCodec) Decode(token string) (Claims, error) {
	tok, err := tc.parse(token)
	if err != nil && tok == nil {
		return Claims{}, err
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("unexpected claims shape")
	}
	out := Claims{}
	if v, ok := mc["sub"].(string); ok {
		out.Subject = v
	}
	if v, ok := mc["role"].(string); ok {
		out.Role = model.Role(v)
	}
	if v, ok := mc["uid"].(float64); ok {
		out.UserID = uint64(v)
	}
	if v, ok := mc["jti"].(string); ok {
		out.Jti = v
	}
	return out, nil
}

// Jti returns the token identifier without validating anything else.  It
// must never be used to authorize a request.
func (tc *TokenCodec) Jti(token string) string {
	c, err := tc.Decode(token)
	if err != nil {
		return ""
	}
	return c.Jti
}

func (tc *TokenCodec) parse(token string) (*jwt.Token, error) {
	return jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tc.secret, nil
	}, jwt.WithTimeFunc(tc.clock))
}
