package repository

import (
	"context"

	"gorm.io/gorm"

	"mnki/internal/model"
)

// TrainedByRepository reads the trainer/member assignment relation.
type TrainedByRepository interface {
	Exists(ctx context.Context, trainerID, memberID uint) (bool, error)
	ListByTrainer(ctx context.Context, trainerID uint) ([]model.TrainedBy, error)
}

type trainedByRepository struct {
	db *gorm.DB
}

// NewTrainedByRepository builds a GORM-backed repository.
func NewTrainedByRepository(db *gorm.DB) TrainedByRepository {
	return &trainedByRepository{db: db}
}

func (r *trainedByRepository) Exists(ctx context.Context, trainerID, memberID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TrainedBy{}).
		Where("trainer_id = ? AND member_id = ?", trainerID, memberID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *trainedByRepository) ListByTrainer(ctx context.Context, trainerID uint) ([]model.TrainedBy, error) {
	var links []model.TrainedBy
	err := r.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Preload("Member").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}
