package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "mnki/internal/errors"
	"mnki/internal/service"
)

// EventHandler handles the event feed, admin mutations, and likes.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// LikeRequest identifies a (user, event) like pair.
type LikeRequest struct {
	EventID uint `json:"event_id" validate:"required"`
	UserID  uint `json:"user_id" validate:"required"`
}

// eventEnvelope is the response shape the feed clients consume.
type eventEnvelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// ListEvents godoc
// @Summary Event feed page (20 items on page 1, 5 per page after)
// @Tags events
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} eventEnvelope
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	result, err := h.eventService.ListEvents(c.Request().Context(), page)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, eventEnvelope{
		Success:    true,
		Message:    "Success fetching data",
		Data:       result.Data,
		Pagination: result.Pagination,
	})
}

// GetEvent godoc
// @Summary Event details
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} eventEnvelope
// @Failure 404 {object} errors.ErrorResponse
// @Router /eventDetails/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id"})
	}

	event, err := h.eventService.GetEvent(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, eventEnvelope{
		Success: true,
		Message: "Event found",
		Data:    event,
	})
}

// CreateEvent godoc
// @Summary Create an event
// @Tags events
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param joinform formData string false "Join form URL"
// @Param img_file formData file false "Event image"
// @Success 201 {object} eventEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	title := c.FormValue("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "title is required"})
	}

	image, err := readImage(c, "img_file", false)
	if err != nil {
		return err
	}

	event, err := h.eventService.CreateEvent(c.Request().Context(), service.CreateEventInput{
		Title:       title,
		Description: c.FormValue("description"),
		JoinForm:    c.FormValue("joinform"),
		Image:       image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, eventEnvelope{
		Success: true,
		Message: "Event created successfully",
		Data:    event,
	})
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags events
// @Accept mpfd
// @Produce json
// @Param id path int true "Event ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param images formData string false "Current image URL; empty removes the image"
// @Param img_file formData file false "Replacement image"
// @Success 200 {object} eventEnvelope
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id"})
	}

	image, err := readImage(c, "img_file", false)
	if err != nil {
		return err
	}

	event, err := h.eventService.UpdateEvent(c.Request().Context(), uint(id), service.UpdateEventInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		// An empty images field means the client removed the image.
		RemoveImage: c.FormValue("images") == "",
		Image:       image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, eventEnvelope{
		Success: true,
		Message: "Event updated successfully",
		Data:    event,
	})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} eventEnvelope
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid id"})
	}

	if err := h.eventService.DeleteEvent(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, eventEnvelope{
		Success: true,
		Message: "Event deleted successfully",
	})
}

// LikeEvent godoc
// @Summary Like an event
// @Tags events
// @Accept json
// @Produce json
// @Param request body LikeRequest true "User and event ids"
// @Success 201 {object} eventEnvelope
// @Router /likeEvent [post]
func (h *EventHandler) LikeEvent(c echo.Context) error {
	var req LikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	like, err := h.eventService.LikeEvent(c.Request().Context(), req.UserID, req.EventID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, eventEnvelope{
		Success: true,
		Message: "Event liked successfully",
		Data:    like,
	})
}

// UnlikeEvent godoc
// @Summary Remove a like
// @Tags events
// @Accept json
// @Produce json
// @Param request body LikeRequest true "User and event ids"
// @Success 200 {object} eventEnvelope
// @Router /unlikeEvent [post]
func (h *EventHandler) UnlikeEvent(c echo.Context) error {
	var req LikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	if err := h.eventService.UnlikeEvent(c.Request().Context(), req.UserID, req.EventID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, eventEnvelope{
		Success: true,
		Message: "Event unliked successfully",
	})
}

// LikedEvents godoc
// @Summary Events liked by a user
// @Tags events
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} eventEnvelope
// @Failure 404 {object} eventEnvelope
// @Router /likedEvents/{userId} [get]
func (h *EventHandler) LikedEvents(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid user id"})
	}

	likes, err := h.eventService.LikedEvents(c.Request().Context(), uint(userID))
	if err != nil {
		return httpError(err)
	}

	if len(likes) == 0 {
		return c.JSON(http.StatusNotFound, eventEnvelope{
			Success: false,
			Message: "No liked events found for this user",
		})
	}

	return c.JSON(http.StatusOK, eventEnvelope{
		Success: true,
		Message: "Liked events fetched successfully",
		Data:    likes,
	})
}
