package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"mnki/internal/model"
)

const (
	// SessionExpiry is the fixed validity of a session token. Revocation is
	// purely client-side (cookie clear); a token stays valid until expiry.
	SessionExpiry = 24 * time.Hour
	// SessionCookieName is the http-only cookie carrying the session token.
	SessionCookieName = "token"
)

// ErrInvalidToken is returned when a session token fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the session token payload.
type Claims struct {
	UserID uint       `json:"user_id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionService issues and verifies session tokens.
type SessionService struct {
	secret []byte
	secure bool
}

// NewSessionService creates a session service. secure controls the cookie
// Secure flag (on in production where the frontend is on another origin).
func NewSessionService(secret string, secure bool) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		secure: secure,
	}
}

// Secret exposes the signing key for the request middleware.
func (s *SessionService) Secret() []byte {
	return s.secret
}

// IssueToken signs a session token carrying the user id and role.
func (s *SessionService) IssueToken(userID uint, role model.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken validates a session token and returns its claims. Any
// tamper or expiry yields ErrInvalidToken.
func (s *SessionService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetSessionCookie attaches the token as an http-only, cross-site cookie
// with a max age matching the token expiry.
func (s *SessionService) SetSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionExpiry.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearSessionCookie expires the session cookie unconditionally.
func (s *SessionService) ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteNoneMode,
	})
}
