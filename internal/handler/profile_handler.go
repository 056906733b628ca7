package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/service"
)

// ProfileHandler handles the self-service account surface.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the multipart profile update form.
type UpdateProfileRequest struct {
	Username string `form:"username" validate:"required"`
	Name     string `form:"name" validate:"required"`
	PhoneNo  string `form:"phone_no" validate:"omitempty,e164|numeric"`
}

// CheckPhoneRequest asks whether a phone number is taken.
type CheckPhoneRequest struct {
	PhoneNo string `json:"phone_no" validate:"required"`
}

// ChangePasswordRequest carries the old and new passwords.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags profile
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	user, err := h.profileService.GetProfile(c.Request().Context(), identity.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags profile
// @Accept mpfd
// @Produce json
// @Param username formData string true "Username"
// @Param name formData string true "Display name"
// @Param phone_no formData string false "Phone number (empty clears it)"
// @Param img_file formData file false "New avatar"
// @Success 200 {object} map[string]string
// @Failure 409 {object} errors.ErrorResponse
// @Router /update-profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	image, err := readImage(c, "img_file", false)
	if err != nil {
		return err
	}

	err = h.profileService.UpdateProfile(c.Request().Context(), identity.UserID, service.UpdateProfileInput{
		Username: req.Username,
		Name:     req.Name,
		Phone:    req.PhoneNo,
		Image:    image,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

// CheckPhone godoc
// @Summary Check whether a phone number is used by another account
// @Tags profile
// @Accept json
// @Produce json
// @Param request body CheckPhoneRequest true "Phone number"
// @Success 200 {object} map[string]bool
// @Failure 409 {object} map[string]bool
// @Router /check-phone [post]
func (h *ProfileHandler) CheckPhone(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	var req CheckPhoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	isUsed, err := h.profileService.CheckPhone(c.Request().Context(), identity.UserID, req.PhoneNo)
	if err != nil {
		return httpError(err)
	}

	if isUsed {
		return c.JSON(http.StatusConflict, map[string]bool{"isUsed": true})
	}
	return c.JSON(http.StatusOK, map[string]bool{"isUsed": false})
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags profile
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Old and new passwords"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /change-password [post]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	err := h.profileService.ChangePassword(c.Request().Context(), identity.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
