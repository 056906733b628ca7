package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"mnki/internal/model"
)

// MemberQuery carries the validated search/sort/filter/pagination inputs for
// the member listing. TrainerID non-zero scopes results to that trainer's
// assigned members.
type MemberQuery struct {
	Search     string
	FilterRole string
	SortBy     string
	Order      string
	Offset     int
	Limit      int
	TrainerID  uint
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
	ListMembers(ctx context.Context, q MemberQuery) ([]model.User, int64, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("phone_no = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListMembers runs the dynamic member query and the matching count in one
// place so both always see the same conditions.
func (r *userRepository) ListMembers(ctx context.Context, q MemberQuery) ([]model.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.User{})

	if q.FilterRole != "" {
		base = base.Where("role = ?", q.FilterRole)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		base = base.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone_no) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if q.TrainerID != 0 {
		base = base.Where(
			"EXISTS (SELECT 1 FROM trained_by tb WHERE tb.member_id = users.id AND tb.trainer_id = ?)",
			q.TrainerID,
		)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := base.
		Order(q.SortBy + " " + q.Order).
		Offset(q.Offset).
		Limit(q.Limit).
		Preload("TrainedBy.Trainer").
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// WithTransaction runs fn against a transactional copy of the repository.
func (r *userRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &userRepository{db: tx})
	})
}
