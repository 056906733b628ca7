package auth

import (
	"errors"
	"net/http"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"mnki/internal/model"
)

// identityKey is the echo context key holding the decoded identity.
const identityKey = "identity"

// Identity is the decoded {user id, role} attached to authenticated requests.
type Identity struct {
	UserID uint
	Role   model.Role
}

// IdentityFrom returns the identity attached by the auth gate.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// Middleware is the auth gate: it reads the session cookie, verifies the
// token, and attaches the identity to the request context. A missing cookie
// is 401; a tampered or expired token is 403. No store lookup happens here,
// so a deleted user stays "authenticated" until the token expires.
func (s *SessionService) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  s.secret,
		TokenLookup: "cookie:" + SessionCookieName,
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			return echo.NewHTTPError(http.StatusForbidden, map[string]string{"error": "Invalid token"})
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(jwtv5.MapClaims)
			if !ok {
				return
			}
			userID, _ := claims["user_id"].(float64)
			roleStr, _ := claims["role"].(string)
			c.Set(identityKey, Identity{UserID: uint(userID), Role: model.Role(roleStr)})
		},
	})
}

// RequirePermission is the role gate: it runs after the auth gate and
// rejects identities whose role lacks the capability.
func RequirePermission(action Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			if !Can(identity.Role, action) {
				return echo.NewHTTPError(http.StatusForbidden, map[string]string{"error": "Forbidden: Insufficient permissions"})
			}
			return next(c)
		}
	}
}
