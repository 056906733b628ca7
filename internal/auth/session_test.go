package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"mnki/internal/model"
)

func TestSessionService_IssueAndVerify(t *testing.T) {
	svc := NewSessionService("test-secret", false)

	token, err := svc.IssueToken(42, model.RoleTrainer)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.RoleTrainer, claims.Role)
}

func TestSessionService_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewSessionService("secret-a", false)
	verifier := NewSessionService("secret-b", false)

	token, err := issuer.IssueToken(1, model.RoleMember)
	assert.NoError(t, err)

	claims, err := verifier.VerifyToken(token)
	assert.Nil(t, claims)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestSessionService_VerifyRejectsGarbage(t *testing.T) {
	svc := NewSessionService("test-secret", false)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		claims, err := svc.VerifyToken(token)
		assert.Nil(t, claims)
		assert.Equal(t, ErrInvalidToken, err)
	}
}

func TestSessionService_VerifyRejectsTamperedRole(t *testing.T) {
	svc := NewSessionService("test-secret", false)

	token, err := svc.IssueToken(7, model.RoleMember)
	assert.NoError(t, err)

	// Flip a character in the payload segment.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	claims, err := svc.VerifyToken(string(tampered))
	assert.Nil(t, claims)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestSessionService_CookieLifecycle(t *testing.T) {
	svc := NewSessionService("test-secret", true)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	svc.SetSessionCookie(c, "token-value")

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, int(SessionExpiry.Seconds()), cookie.MaxAge)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	svc.ClearSessionCookie(c)

	cookies = rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
