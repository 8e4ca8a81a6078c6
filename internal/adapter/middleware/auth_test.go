package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"csei-backend/internal/domain/member"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-12345678901234567890")

func authEcho() *echo.Echo {
	e := echo.New()
	whoami := func(c echo.Context) error {
		p, _ := PrincipalFrom(c)
		return c.JSON(http.StatusOK, map[string]string{"memberId": p.MemberID, "role": string(p.Role)})
	}
	e.GET("/me", whoami, RequireAuth(testSecret))
	e.GET("/admin", whoami, RequireAuth(testSecret), RequireAdmin)
	return e
}

func mustSign(t *testing.T, id string, role member.Role, ttl time.Duration) string {
	t.Helper()
	s, err := SignToken(testSecret, id, role, ttl)
	require.NoError(t, err)
	return s
}

func TestRequireAuth(t *testing.T) {
	e := authEcho()
	noID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}).SignedString(testSecret)
	otherKey, _ := SignToken([]byte("another-secret"), "M0001", member.RoleMember, time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"memberId": "M0001"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name     string
		cookie   string
		header   string
		wantCode int
		wantID   string
	}{
		{name: "bearer", header: "Bearer " + mustSign(t, "M0001", member.RoleMember, time.Hour), wantCode: http.StatusOK, wantID: "M0001"},
		{name: "cookie", cookie: mustSign(t, "M0002", member.RoleMember, time.Hour), wantCode: http.StatusOK, wantID: "M0002"},
		{name: "cookie wins over header", cookie: mustSign(t, "M0003", member.RoleMember, time.Hour), header: "Bearer garbage", wantCode: http.StatusOK, wantID: "M0003"},
		{name: "missing", wantCode: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantCode: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + mustSign(t, "M0001", member.RoleMember, -time.Minute), wantCode: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + otherKey, wantCode: http.StatusUnauthorized},
		{name: "alg none", header: "Bearer " + none, wantCode: http.StatusUnauthorized},
		{name: "no member id", header: "Bearer " + noID, wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantID != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantID, body["memberId"])
				assert.Equal(t, "member", body["role"])
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	e := authEcho()
	for _, tc := range []struct {
		role member.Role
		want int
	}{
		{member.RoleAdmin, http.StatusOK},
		{member.RoleMember, http.StatusForbidden},
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+mustSign(t, "A1", tc.role, time.Hour))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, string(tc.role))
	}
}

func TestRequireAdmin_WithoutPrincipal(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	err := RequireAdmin(func(echo.Context) error { t.Fatal("must not run"); return nil })(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, c.Response().Status)
}
