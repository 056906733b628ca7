package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/service"
)

// NoteHandler handles trainer note routes.
type NoteHandler struct {
	noteService service.NoteService
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// CreateNoteRequest is the body for creating a training note.
type CreateNoteRequest struct {
	MemberID uint   `json:"memberId" validate:"required"`
	Notes    string `json:"notes" validate:"required"`
}

// UpdateNoteRequest is the body for a partial note update.
type UpdateNoteRequest struct {
	Notes   string     `json:"notes"`
	Status  string     `json:"status"`
	EndDate *time.Time `json:"endDate"`
}

// CreateNote godoc
// @Summary Create a training note for a member
// @Tags notes
// @Accept json
// @Produce json
// @Param request body CreateNoteRequest true "Member and note text"
// @Success 201 {object} model.TrainingNote
// @Failure 400 {object} errors.ErrorResponse
// @Security CookieAuth
// @Router /api/notes [post]
func (h *NoteHandler) CreateNote(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	var req CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "memberId and notes are required"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	note, err := h.noteService.CreateNote(c.Request().Context(), identity.UserID, req.MemberID, req.Notes)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, note)
}

// GetNote godoc
// @Summary Fetch a single training note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} model.TrainingNote
// @Failure 404 {object} errors.ErrorResponse
// @Security CookieAuth
// @Router /api/notes/{id} [get]
func (h *NoteHandler) GetNote(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id"})
	}

	note, err := h.noteService.GetNote(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, note)
}

// ListTrainerNotes godoc
// @Summary Notes authored by the calling trainer
// @Tags notes
// @Produce json
// @Success 200 {array} model.TrainingNote
// @Security CookieAuth
// @Router /api/notes/trainer [get]
func (h *NoteHandler) ListTrainerNotes(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	notes, err := h.noteService.ListTrainerNotes(c.Request().Context(), identity.UserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, notes)
}

// ListMemberNotes godoc
// @Summary Notes attached to a member
// @Tags notes
// @Produce json
// @Param memberId path int true "Member ID"
// @Success 200 {array} model.TrainingNote
// @Failure 403 {object} errors.ErrorResponse
// @Security CookieAuth
// @Router /api/notes/member/{memberId} [get]
func (h *NoteHandler) ListMemberNotes(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	memberID, err := strconv.Atoi(c.Param("memberId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid member id"})
	}

	notes, err := h.noteService.ListMemberNotes(c.Request().Context(), identity, uint(memberID))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, notes)
}

// UpdateNote godoc
// @Summary Update a training note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param request body UpdateNoteRequest true "Fields to change"
// @Success 200 {object} model.TrainingNote
// @Failure 403 {object} errors.ErrorResponse
// @Security CookieAuth
// @Router /api/notes/{id} [put]
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id"})
	}

	var req UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}

	note, err := h.noteService.UpdateNote(c.Request().Context(), identity, uint(id), service.UpdateNoteInput{
		Notes:   req.Notes,
		Status:  model.NoteStatus(req.Status),
		EndDate: req.EndDate,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, note)
}

// DeleteNote godoc
// @Summary Delete a training note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security CookieAuth
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Unauthorized"})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id"})
	}

	if err := h.noteService.DeleteNote(c.Request().Context(), identity, uint(id)); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Note deleted successfully"})
}
