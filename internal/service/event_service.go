package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mnki/internal/cache"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/repository"
	"mnki/internal/storage"
)

const (
	// firstPageSize is the large initial feed load; nextPageSize is every
	// incremental load after it. Clients depend on this 20-then-5 cadence,
	// keep it asymmetric.
	firstPageSize = 20
	nextPageSize  = 5

	eventCacheTTL      = 5 * time.Minute
	eventCountCacheTTL = time.Minute
	eventCountCacheKey = "events:count"
)

// EventPagination is the feed pagination metadata.
type EventPagination struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
	HasMore     bool  `json:"hasMore"`
}

// EventPage is one page of the event feed.
type EventPage struct {
	Data       []model.Event   `json:"data"`
	Pagination EventPagination `json:"pagination"`
}

// CreateEventInput carries the validated event fields. Image is optional.
type CreateEventInput struct {
	Title       string
	Description string
	JoinForm    string
	Image       *ImageUpload
}

// UpdateEventInput carries the event update. RemoveImage clears the image
// (deleting the old remote object); a non-nil Image replaces it.
type UpdateEventInput struct {
	Title       string
	Description string
	RemoveImage bool
	Image       *ImageUpload
}

// EventService handles the event feed, mutations, and likes.
type EventService interface {
	ListEvents(ctx context.Context, page int) (*EventPage, error)
	GetEvent(ctx context.Context, id uint) (*model.Event, error)
	CreateEvent(ctx context.Context, in CreateEventInput) (*model.Event, error)
	UpdateEvent(ctx context.Context, id uint, in UpdateEventInput) (*model.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
	LikeEvent(ctx context.Context, userID, eventID uint) (*model.EventLike, error)
	UnlikeEvent(ctx context.Context, userID, eventID uint) error
	LikedEvents(ctx context.Context, userID uint) ([]model.EventLike, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	images    *storage.ImageStore
	cache     *cache.Client
}

// NewEventService creates a new event service.
func NewEventService(eventRepo repository.EventRepository, images *storage.ImageStore, cache *cache.Client) EventService {
	return &eventService{
		eventRepo: eventRepo,
		images:    images,
		cache:     cache,
	}
}

func (s *eventService) eventCacheKey(id uint) string {
	return fmt.Sprintf("event:%d", id)
}

// ListEvents returns one feed page. Page 1 loads firstPageSize items from
// the top; every later page loads nextPageSize more, so offsets and the
// loaded-so-far count both follow the two-tier formula.
func (s *eventService) ListEvents(ctx context.Context, page int) (*EventPage, error) {
	if page < 1 {
		page = 1
	}

	pageSize := firstPageSize
	offset := 0
	if page > 1 {
		pageSize = nextPageSize
		offset = firstPageSize + (page-2)*nextPageSize
	}

	total, err := s.countEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	events, err := s.eventRepo.List(ctx, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	loadedSoFar := int64(firstPageSize)
	if page > 1 {
		loadedSoFar = int64(firstPageSize + (page-1)*nextPageSize)
	}

	return &EventPage{
		Data: events,
		Pagination: EventPagination{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalCount:  total,
			HasMore:     total > loadedSoFar,
		},
	}, nil
}

func (s *eventService) countEvents(ctx context.Context) (int64, error) {
	var cached int64
	if s.cache.GetJSON(ctx, eventCountCacheKey, &cached) {
		return cached, nil
	}
	total, err := s.eventRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	s.cache.SetJSON(ctx, eventCountCacheKey, total, eventCountCacheTTL)
	return total, nil
}

// GetEvent returns a single event, cached briefly.
func (s *eventService) GetEvent(ctx context.Context, id uint) (*model.Event, error) {
	var cached model.Event
	if s.cache.GetJSON(ctx, s.eventCacheKey(id), &cached) {
		return &cached, nil
	}

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	s.cache.SetJSON(ctx, s.eventCacheKey(id), event, eventCacheTTL)
	return event, nil
}

// CreateEvent stores a new event, relaying the image first when present.
func (s *eventService) CreateEvent(ctx context.Context, in CreateEventInput) (*model.Event, error) {
	imageURL := ""
	if in.Image != nil {
		url, err := s.images.Upload(ctx, storage.FolderEvents, in.Image.Filename, in.Image.ContentType, in.Image.Data)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	joinForm := in.JoinForm
	if joinForm == "" {
		joinForm = "https://example.com/join-form"
	}

	event := &model.Event{
		Title:       in.Title,
		Images:      imageURL,
		Description: in.Description,
		JoinForm:    joinForm,
		PostedAt:    time.Now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	_ = s.cache.Delete(ctx, eventCountCacheKey)
	return event, nil
}

// UpdateEvent applies the image policy: explicit removal deletes the old
// remote object, a new file replaces it (deleting the old one), otherwise
// the image is untouched.
func (s *eventService) UpdateEvent(ctx context.Context, id uint, in UpdateEventInput) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	switch {
	case in.RemoveImage:
		s.images.Remove(ctx, event.Images)
		event.Images = ""
	case in.Image != nil:
		url, err := s.images.Upload(ctx, storage.FolderEvents, in.Image.Filename, in.Image.ContentType, in.Image.Data)
		if err != nil {
			return nil, err
		}
		s.images.Remove(ctx, event.Images)
		event.Images = url
	}

	event.Title = in.Title
	event.Description = in.Description

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	_ = s.cache.Delete(ctx, s.eventCacheKey(id))
	return event, nil
}

// DeleteEvent removes the row and best-effort deletes its remote image.
func (s *eventService) DeleteEvent(ctx context.Context, id uint) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("find event: %w", err)
	}

	s.images.Remove(ctx, event.Images)

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	_ = s.cache.Delete(ctx, s.eventCacheKey(id), eventCountCacheKey)
	return nil
}

// LikeEvent records the like; liking twice is a no-op.
func (s *eventService) LikeEvent(ctx context.Context, userID, eventID uint) (*model.EventLike, error) {
	like, err := s.eventRepo.Like(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("like event: %w", err)
	}
	return like, nil
}

// UnlikeEvent removes the like if present.
func (s *eventService) UnlikeEvent(ctx context.Context, userID, eventID uint) error {
	if err := s.eventRepo.Unlike(ctx, userID, eventID); err != nil {
		return fmt.Errorf("unlike event: %w", err)
	}
	return nil
}

// LikedEvents lists the like rows for a user.
func (s *eventService) LikedEvents(ctx context.Context, userID uint) ([]model.EventLike, error) {
	likes, err := s.eventRepo.ListLikesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return likes, nil
}
