// Package middleware holds the echo middleware shared by every route group.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"csei-backend/internal/domain/member"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookie = "sessionToken"
	principalKey  = "principal"
)

// Principal is the authenticated caller resolved from the session token.
type Principal struct {
	MemberID string
	Role     member.Role
}

func (p Principal) IsAdmin() bool { return p.Role == member.RoleAdmin }

// Claims carried by a session token.
type Claims struct {
	MemberID string      `json:"memberId"`
	Role     member.Role `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 session token. Login lives elsewhere; this is
// used by tooling and tests.
func SignToken(secret []byte, memberID string, role member.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		MemberID: memberID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString(secret)
}

func tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get(echo.HeaderAuthorization)
	if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func parseToken(secret []byte, raw string) (Principal, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !tok.Valid {
		return Principal{}, errors.New("invalid or expired token")
	}
	if claims.MemberID == "" {
		return Principal{}, errors.New("token has no memberId")
	}
	role := claims.Role
	if role == "" {
		role = member.RoleMember
	}
	return Principal{MemberID: claims.MemberID, Role: role}, nil
}

// RequireAuth answers 401 unless a valid session token is presented.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFrom(c.Request())
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			p, err := parseToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
		if !p.IsAdmin() {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
		}
		return next(c)
	}
}

func SetPrincipal(c echo.Context, p Principal) { c.Set(principalKey, p) }

func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}
