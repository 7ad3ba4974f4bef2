package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshanmgr/venue-booking/internal/auth"
	"github.com/roshanmgr/venue-booking/internal/model"
)

func newIdentityEcho(t *testing.T) (*echo.Echo, *auth.TokenCodec) {
	t.Helper()
	codec := auth.NewTokenCodec("mw-test-secret")
	e := echo.New()
	e.Use(Identify(codec))
	e.GET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"id":   CurrentUserID(c),
			"role": CurrentRole(c),
		})
	})
	e.GET("/private", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireAuth())
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole("ADMIN"))
	e.OPTIONS("/whoami", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	return e, codec
}

func do(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIdentifyAttachesIdentityFromValidToken(t *testing.T) {
	e, codec := newIdentityEcho(t)
	token, _, err := codec.Issue("ana@example.com", model.RoleAdmin, 42)
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/whoami", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":42`)
	assert.Contains(t, rec.Body.String(), `"role":"ADMIN"`)
}

func TestIdentifyPassesUnauthenticatedThrough(t *testing.T) {
	e, _ := newIdentityEcho(t)

	for _, token := range []string{"", "not-a-jwt"} {
		rec := do(e, http.MethodGet, "/whoami", token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":0`)
	}
}

func TestIdentifySkipsPreflight(t *testing.T) {
	e, _ := newIdentityEcho(t)

	rec := do(e, http.MethodOptions, "/whoami", "whatever-garbage")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	e, codec := newIdentityEcho(t)

	rec := do(e, http.MethodGet, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := codec.Issue("eva@example.com", model.RoleAttendee, 7)
	require.NoError(t, err)
	rec = do(e, http.MethodGet, "/private", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleEnforcesRole(t *testing.T) {
	e, codec := newIdentityEcho(t)

	rec := do(e, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	attendee, _, err := codec.Issue("eva@example.com", model.RoleAttendee, 7)
	require.NoError(t, err)
	rec = do(e, http.MethodGet, "/admin", attendee)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, _, err := codec.Issue("root@example.com", model.RoleAdmin, 1)
	require.NoError(t, err)
	rec = do(e, http.MethodGet, "/admin", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpiredTokenLeavesRequestAnonymous(t *testing.T) {
	e, _ := newIdentityEcho(t)

	// Issue with a clock far enough in the past that the token is already
	// expired when the middleware validates it.
	past := func() time.Time { return time.Now().Add(-11 * time.Hour) }
	stale, _, err := auth.NewTokenCodecAt("mw-test-secret", past).Issue("old@example.com", model.RoleAdmin, 3)
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/whoami", stale)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":0`)
}
