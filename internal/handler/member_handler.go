package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/service"
)

// MemberHandler handles member administration and the role-scoped listing.
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// AddMemberRequest represents the multipart add-member form.
type AddMemberRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Username string `form:"username" validate:"required"`
	Name     string `form:"name" validate:"required"`
	Phone    string `form:"phone" validate:"omitempty,e164|numeric"`
	Role     string `form:"role" validate:"required,oneof=member trainer"`
}

// UpdateMemberRequest represents an admin member update.
type UpdateMemberRequest struct {
	Name    string `json:"name" validate:"required"`
	PhoneNo string `json:"phone_no" validate:"omitempty,e164|numeric"`
}

// ListMembers godoc
// @Summary List members with search, sort, filter, and pagination
// @Tags members
// @Produce json
// @Param search query string false "Substring match over name, email, phone"
// @Param sortBy query string false "One of id, email, phone_no, name, created_at, last_activity"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Param filterBy query string false "Exact role filter"
// @Success 200 {object} service.MemberPage
// @Failure 400 {object} errors.ErrorResponse
// @Router /members [get]
func (h *MemberHandler) ListMembers(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.memberService.ListMembers(c.Request().Context(), identity, service.ListMembersParams{
		Search:   c.QueryParam("search"),
		SortBy:   c.QueryParam("sortBy"),
		Order:    c.QueryParam("order"),
		Page:     page,
		Limit:    limit,
		FilterBy: c.QueryParam("filterBy"),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListAll godoc
// @Summary Unpaginated member listing (trainer sees assigned members only)
// @Tags members
// @Produce json
// @Success 200 {array} model.User
// @Router /get-members [get]
func (h *MemberHandler) ListAll(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	result, err := h.memberService.ListAll(c.Request().Context(), identity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// AddMember godoc
// @Summary Add a member or trainer with a generated default password
// @Tags members
// @Accept mpfd
// @Produce json
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param name formData string true "Display name"
// @Param phone formData string false "Phone number"
// @Param role formData string true "Role" Enums(member, trainer)
// @Param img_file formData file true "Avatar image"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /add-member [post]
func (h *MemberHandler) AddMember(c echo.Context) error {
	var req AddMemberRequest
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

	defaultPassword, err := h.memberService.AddMember(c.Request().Context(), service.AddMemberInput{
		Email:    req.Email,
		Username: req.Username,
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     model.Role(req.Role),
		Image:    *image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message":         "Member added successfully",
		"defaultPassword": defaultPassword,
	})
}

// GetMember godoc
// @Summary Get a member by id
// @Tags members
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /get-member/{id} [get]
func (h *MemberHandler) GetMember(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id"})
	}

	user, err := h.memberService.GetMember(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMember godoc
// @Summary Update a member's name and phone
// @Tags members
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateMemberRequest true "Fields"
// @Success 200 {object} map[string]string
// @Failure 409 {object} errors.ErrorResponse
// @Router /update-member/{id} [put]
func (h *MemberHandler) UpdateMember(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id"})
	}

	var req UpdateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	if err := h.memberService.UpdateMember(c.Request().Context(), uint(id), req.Name, req.PhoneNo); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Member updated successfully"})
}

// DeleteMember godoc
// @Summary Delete a member
// @Tags members
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /delete-member/{id} [delete]
func (h *MemberHandler) DeleteMember(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id"})
	}

	if err := h.memberService.DeleteMember(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Member deleted successfully"})
}
