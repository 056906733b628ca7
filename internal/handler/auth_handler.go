package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/service"
)

// AuthHandler handles registration, login, logout, and the Google flows.
type AuthHandler struct {
	authService   service.AuthService
	googleService service.GoogleAuthService
	sessions      *auth.SessionService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, googleService service.GoogleAuthService, sessions *auth.SessionService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		googleService: googleService,
		sessions:      sessions,
	}
}

// RegisterRequest represents the multipart registration form.
type RegisterRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required,min=8"`
	Name     string `form:"name" validate:"required"`
	Role     string `form:"role" validate:"required,oneof=member trainer admin"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries a Google ID token from the client.
type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// GoogleCallbackRequest carries the authorization code from the frontend
// callback page.
type GoogleCallbackRequest struct {
	Code string `json:"code" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept mpfd
// @Produce json
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param password formData string true "Password (min 8 chars)"
// @Param name formData string true "Display name"
// @Param role formData string true "Role" Enums(member, trainer, admin)
// @Param img_file formData file true "Avatar image"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	image, err := readImage(c, "img_file", true)
	if err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Role:     model.Role(req.Role),
		Image:    *image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	h.sessions.SetSessionCookie(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user.Public(),
	})
}

// Logout godoc
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	user, err := h.authService.GetProfile(c.Request().Context(), identity.UserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"role":       user.Role,
		"avatar":     user.Avatar,
		"provider":   user.Provider,
		"created_at": user.CreatedAt,
	})
}

// GoogleLogin godoc
// @Summary Login with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleLoginRequest true "Google ID token"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	result, err := h.googleService.LoginWithIDToken(c.Request().Context(), req.Token)
	if err != nil {
		return httpError(err)
	}

	return h.respondGoogle(c, result)
}

// GoogleCallback godoc
// @Summary Complete the Google authorization-code flow
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleCallbackRequest true "Authorization code"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/google/callback [post]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	var req GoogleCallbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "authorization code is required"})
	}

	result, err := h.googleService.LoginWithCode(c.Request().Context(), req.Code)
	if err != nil {
		return httpError(err)
	}

	return h.respondGoogle(c, result)
}

func (h *AuthHandler) respondGoogle(c echo.Context, result *service.GoogleAuthResult) error {
	h.sessions.SetSessionCookie(c, result.Token)

	message := "Login successful"
	if result.IsNewUser {
		message = "Account created and login successful"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": message,
		"user":    result.User.Public(),
	})
}
