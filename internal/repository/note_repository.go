package repository

import (
	"context"

	"gorm.io/gorm"

	"mnki/internal/model"
)

// NoteRepository defines persistence operations for training notes.
type NoteRepository interface {
	Create(ctx context.Context, note *model.TrainingNote) error
	Update(ctx context.Context, note *model.TrainingNote) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.TrainingNote, error)
	ListByMember(ctx context.Context, memberID uint) ([]model.TrainingNote, error)
	ListByTrainer(ctx context.Context, trainerID uint) ([]model.TrainingNote, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository builds a GORM-backed repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.TrainingNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) Update(ctx context.Context, note *model.TrainingNote) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.TrainingNote{}, id).Error
}

func (r *noteRepository) FindByID(ctx context.Context, id uint) (*model.TrainingNote, error) {
	var note model.TrainingNote
	err := r.db.WithContext(ctx).
		Preload("Trainer").
		Preload("Member").
		First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) ListByMember(ctx context.Context, memberID uint) ([]model.TrainingNote, error) {
	var notes []model.TrainingNote
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at desc").
		Preload("Trainer").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) ListByTrainer(ctx context.Context, trainerID uint) ([]model.TrainingNote, error) {
	var notes []model.TrainingNote
	err := r.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Order("created_at desc").
		Preload("Member").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
