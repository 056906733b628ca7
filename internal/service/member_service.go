package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/repository"
	"mnki/internal/storage"
)

// validSortFields is the sortBy allow-list; anything else is rejected
// before a store call happens.
var validSortFields = map[string]bool{
	"id":            true,
	"email":         true,
	"phone_no":      true,
	"name":          true,
	"created_at":    true,
	"last_activity": true,
}

// ListMembersParams are the raw query parameters of the member listing.
type ListMembersParams struct {
	Search   string
	SortBy   string
	Order    string
	Page     int
	Limit    int
	FilterBy string
}

// Pagination is the metadata block returned with member pages.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// MemberPage is a filtered, sorted, paginated slice of members.
type MemberPage struct {
	Data       []model.User `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// AddMemberInput carries the validated add-member fields.
type AddMemberInput struct {
	Email    string
	Username string
	Name     string
	Phone    string
	Role     model.Role
	Image    ImageUpload
}

// MemberService handles member administration and the role-scoped listing.
type MemberService interface {
	ListMembers(ctx context.Context, caller auth.Identity, params ListMembersParams) (*MemberPage, error)
	ListAll(ctx context.Context, caller auth.Identity) (interface{}, error)
	AddMember(ctx context.Context, in AddMemberInput) (defaultPassword string, err error)
	GetMember(ctx context.Context, id uint) (*model.User, error)
	UpdateMember(ctx context.Context, id uint, name, phone string) error
	DeleteMember(ctx context.Context, id uint) error
}

type memberService struct {
	userRepo    repository.UserRepository
	trainedRepo repository.TrainedByRepository
	images      *storage.ImageStore
}

// NewMemberService creates a new member service.
func NewMemberService(userRepo repository.UserRepository, trainedRepo repository.TrainedByRepository, images *storage.ImageStore) MemberService {
	return &memberService{
		userRepo:    userRepo,
		trainedRepo: trainedRepo,
		images:      images,
	}
}

// ListMembers validates the query inputs, scopes trainers to their assigned
// members, and returns one page plus pagination metadata.
func (s *memberService) ListMembers(ctx context.Context, caller auth.Identity, params ListMembersParams) (*MemberPage, error) {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	order := params.Order
	if order == "" {
		order = "asc"
	}

	if !validSortFields[sortBy] {
		return nil, apperrors.ErrInvalidSortField
	}
	if order != "asc" && order != "desc" {
		return nil, apperrors.ErrInvalidOrder
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 10
	}

	query := repository.MemberQuery{
		Search:     params.Search,
		FilterRole: params.FilterBy,
		SortBy:     sortBy,
		Order:      order,
		Offset:     (page - 1) * limit,
		Limit:      limit,
	}
	if caller.Role == model.RoleTrainer {
		query.TrainerID = caller.UserID
	}

	users, total, err := s.userRepo.ListMembers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return &MemberPage{
		Data: users,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// ListAll is the unpaginated listing: trainers get their assignment links
// with member rows attached, everyone else gets all users by name.
func (s *memberService) ListAll(ctx context.Context, caller auth.Identity) (interface{}, error) {
	if caller.Role == model.RoleTrainer {
		links, err := s.trainedRepo.ListByTrainer(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("list assignments: %w", err)
		}
		return links, nil
	}
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// AddMember creates an account with a generated default password, returned
// once to the admin so it can be handed to the new member.
func (s *memberService) AddMember(ctx context.Context, in AddMemberInput) (string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return "", apperrors.ErrEmailInUse
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("check email: %w", err)
	}

	if in.Phone != "" {
		owner, err := s.userRepo.FindByPhone(ctx, in.Phone)
		if err == nil && owner != nil {
			return "", apperrors.ErrPhoneInUse
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("check phone: %w", err)
		}
	}

	folder := storage.FolderMembers
	if in.Role == model.RoleTrainer {
		folder = storage.FolderTrainers
	}
	avatarURL, err := s.images.Upload(ctx, folder, in.Image.Filename, in.Image.ContentType, in.Image.Data)
	if err != nil {
		return "", err
	}

	// Default password: lowercased name without spaces plus 6 random chars.
	defaultPassword := strings.ReplaceAll(strings.ToLower(in.Name), " ", "") + uuid.New().String()[:6]
	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	hashedStr := string(hashed)

	user := &model.User{
		Email:        in.Email,
		Username:     in.Username,
		Name:         in.Name,
		Role:         in.Role,
		PasswordHash: &hashedStr,
		Avatar:       avatarURL,
	}
	if in.Phone != "" {
		user.PhoneNo = &in.Phone
	}

	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		return repo.Create(ctx, user)
	})
	if err != nil {
		return "", fmt.Errorf("create member: %w", err)
	}

	return defaultPassword, nil
}

// GetMember returns a single user row.
func (s *memberService) GetMember(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateMember changes name and phone, guarding phone uniqueness against
// other rows.
func (s *memberService) UpdateMember(ctx context.Context, id uint, name, phone string) error {
	if phone != "" {
		owner, err := s.userRepo.FindByPhone(ctx, phone)
		if err == nil && owner != nil && owner.ID != id {
			return apperrors.ErrPhoneInUse
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check phone: %w", err)
		}
	}

	fields := map[string]interface{}{"name": name}
	if phone == "" {
		fields["phone_no"] = nil
	} else {
		fields["phone_no"] = phone
	}
	if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

// DeleteMember removes the account and best-effort deletes its remote
// avatar.
func (s *memberService) DeleteMember(ctx context.Context, id uint) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	s.images.Remove(ctx, user.Avatar)

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
