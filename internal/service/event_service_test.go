package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "mnki/internal/errors"
	"mnki/internal/model"
)

func newEventService(eventRepo *MockEventRepository, store *MockObjectStorage) EventService {
	return NewEventService(eventRepo, testImageStore(store), nil)
}

func TestEventService_ListEvents_PageMath(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		total          int64
		wantOffset     int
		wantLimit      int
		wantPageSize   int
		wantHasMore    bool
		wantActualPage int
	}{
		{"first page loads twenty", 1, 30, 0, 20, 20, true, 1},
		{"first page exactly covers feed", 1, 20, 0, 20, 20, false, 1},
		{"second page loads five more", 2, 30, 20, 5, 5, true, 2},
		{"second page exhausts feed", 2, 25, 20, 5, 5, false, 2},
		{"third page continues in fives", 3, 40, 25, 5, 5, true, 3},
		{"zero page treated as first", 0, 10, 0, 20, 20, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockEventRepository)
			mockRepo.On("Count", mock.Anything).Return(tt.total, nil)
			mockRepo.On("List", mock.Anything, tt.wantOffset, tt.wantLimit).Return([]model.Event{}, nil)

			svc := newEventService(mockRepo, new(MockObjectStorage))

			page, err := svc.ListEvents(context.Background(), tt.page)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantActualPage, page.Pagination.CurrentPage)
			assert.Equal(t, tt.wantPageSize, page.Pagination.PageSize)
			assert.Equal(t, tt.total, page.Pagination.TotalCount)
			assert.Equal(t, tt.wantHasMore, page.Pagination.HasMore)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEventService_GetEvent_NotFound(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := newEventService(mockRepo, new(MockObjectStorage))

	event, err := svc.GetEvent(context.Background(), 99)

	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	assert.Nil(t, event)
}

func TestEventService_CreateEvent(t *testing.T) {
	t.Run("without image", func(t *testing.T) {
		mockRepo := new(MockEventRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Event")).Return(nil)

		svc := newEventService(mockRepo, new(MockObjectStorage))

		event, err := svc.CreateEvent(context.Background(), CreateEventInput{Title: "Open Day"})

		assert.NoError(t, err)
		assert.Equal(t, "Open Day", event.Title)
		assert.Empty(t, event.Images)
		assert.NotEmpty(t, event.JoinForm)
		assert.False(t, event.PostedAt.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("with image", func(t *testing.T) {
		mockRepo := new(MockEventRepository)
		mockStore := new(MockObjectStorage)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Event")).Return(nil)
		mockStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil)

		svc := newEventService(mockRepo, mockStore)

		event, err := svc.CreateEvent(context.Background(), CreateEventInput{
			Title: "Open Day",
			Image: &ImageUpload{Filename: "banner.png", ContentType: "image/png", Data: []byte("img")},
		})

		assert.NoError(t, err)
		assert.Contains(t, event.Images, "events/")
		mockRepo.AssertExpectations(t)
		mockStore.AssertExpectations(t)
	})
}

func TestEventService_UpdateEvent_ImageTransitions(t *testing.T) {
	t.Run("remove image deletes remote object", func(t *testing.T) {
		mockRepo := new(MockEventRepository)
		mockStore := new(MockObjectStorage)
		existing := &model.Event{ID: 5, Title: "Old", Images: "http://localhost:9000/test-bucket/events/old.png"}
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(existing, nil)
		mockStore.On("Delete", mock.Anything, "events/old.png").Return(nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Event")).Return(nil)

		svc := newEventService(mockRepo, mockStore)

		event, err := svc.UpdateEvent(context.Background(), 5, UpdateEventInput{Title: "New", RemoveImage: true})

		assert.NoError(t, err)
		assert.Empty(t, event.Images)
		assert.Equal(t, "New", event.Title)
		mockStore.AssertExpectations(t)
	})

	t.Run("replacement uploads then removes the old object", func(t *testing.T) {
		mockRepo := new(MockEventRepository)
		mockStore := new(MockObjectStorage)
		existing := &model.Event{ID: 5, Title: "Old", Images: "http://localhost:9000/test-bucket/events/old.png"}
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(existing, nil)
		mockStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil)
		mockStore.On("Delete", mock.Anything, "events/old.png").Return(nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Event")).Return(nil)

		svc := newEventService(mockRepo, mockStore)

		event, err := svc.UpdateEvent(context.Background(), 5, UpdateEventInput{
			Title: "New",
			Image: &ImageUpload{Filename: "new.png", ContentType: "image/png", Data: []byte("img")},
		})

		assert.NoError(t, err)
		assert.Contains(t, event.Images, "events/")
		assert.NotContains(t, event.Images, "old.png")
		mockStore.AssertExpectations(t)
	})
}

func TestEventService_Likes(t *testing.T) {
	t.Run("like is passed through", func(t *testing.T) {
		mockRepo := new(MockEventRepository)
		mockRepo.On("Like", mock.Anything, uint(1), uint(2)).Return(&model.EventLike{ID: 10, UserID: 1, EventID: 2}, nil)

		svc := newEventService(mockRepo, new(MockObjectStorage))

		like, err := svc.LikeEvent(context.Background(), 1, 2)

		assert.NoError(t, err)
		assert.Equal(t, uint(1), like.UserID)
		assert.Equal(t, uint(2), like.EventID)
	})

	t.Run("liked events listing", func(t *testing.T) {
		mockRepo := new(MockEventRepository)
		mockRepo.On("ListLikesByUser", mock.Anything, uint(1)).Return([]model.EventLike{{EventID: 2}, {EventID: 3}}, nil)

		svc := newEventService(mockRepo, new(MockObjectStorage))

		likes, err := svc.LikedEvents(context.Background(), 1)

		assert.NoError(t, err)
		assert.Len(t, likes, 2)
	})
}
