package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mnki/internal/model"
)

// EventRepository defines persistence operations for events and likes.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	List(ctx context.Context, offset, limit int) ([]model.Event, error)
	Count(ctx context.Context) (int64, error)

	Like(ctx context.Context, userID, eventID uint) (*model.EventLike, error)
	Unlike(ctx context.Context, userID, eventID uint) error
	ListLikesByUser(ctx context.Context, userID uint) ([]model.EventLike, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository builds a GORM-backed repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Event{}, id).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, offset, limit int) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Order("posted_at desc").
		Offset(offset).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Like records the (user, event) pair, ignoring the insert when it already
// exists so a double-like stays a no-op.
func (r *eventRepository) Like(ctx context.Context, userID, eventID uint) (*model.EventLike, error) {
	like := &model.EventLike{UserID: userID, EventID: eventID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error
	if err != nil {
		return nil, err
	}
	return like, nil
}

func (r *eventRepository) Unlike(ctx context.Context, userID, eventID uint) error {
	return r.db.WithContext(ctx).
		Where("u_id = ? AND e_id = ?", userID, eventID).
		Delete(&model.EventLike{}).Error
}

func (r *eventRepository) ListLikesByUser(ctx context.Context, userID uint) ([]model.EventLike, error) {
	var likes []model.EventLike
	err := r.db.WithContext(ctx).
		Where("u_id = ?", userID).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}
