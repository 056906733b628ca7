package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mnki/internal/cache"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/repository"
	"mnki/internal/storage"
)

const profileCacheTTL = 5 * time.Minute

// UpdateProfileInput carries the self-service profile fields. A nil Image
// keeps the current avatar.
type UpdateProfileInput struct {
	Username string
	Name     string
	Phone    string
	Image    *ImageUpload
}

// ProfileService handles the self-service account surface.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) error
	CheckPhone(ctx context.Context, userID uint, phone string) (isUsed bool, err error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
}

type profileService struct {
	userRepo repository.UserRepository
	images   *storage.ImageStore
	cache    *cache.Client
}

// NewProfileService creates a new profile service.
func NewProfileService(userRepo repository.UserRepository, images *storage.ImageStore, cache *cache.Client) ProfileService {
	return &profileService{
		userRepo: userRepo,
		images:   images,
		cache:    cache,
	}
}

func (s *profileService) cacheKey(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

// GetProfile returns the caller's own row, cached briefly.
func (s *profileService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(userID), &cached) {
		return &cached, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(userID), user, profileCacheTTL)
	return user, nil
}

// UpdateProfile changes username, name, phone and optionally the avatar.
// A replaced avatar deletes the previous remote object best-effort; an
// empty phone clears the column.
func (s *profileService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if in.Phone != "" {
		owner, err := s.userRepo.FindByPhone(ctx, in.Phone)
		if err == nil && owner != nil && owner.ID != userID {
			return apperrors.ErrPhoneInUse
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check phone: %w", err)
		}
	}

	fields := map[string]interface{}{
		"username": in.Username,
		"name":     in.Name,
	}
	if in.Phone == "" {
		fields["phone_no"] = nil
	} else {
		fields["phone_no"] = in.Phone
	}

	if in.Image != nil {
		folder := folderForRole(user.Role)
		avatarURL, err := s.images.Upload(ctx, folder, in.Image.Filename, in.Image.ContentType, in.Image.Data)
		if err != nil {
			return err
		}
		s.images.Remove(ctx, user.Avatar)
		fields["avatar"] = avatarURL
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

// CheckPhone reports whether the phone number belongs to another user.
func (s *profileService) CheckPhone(ctx context.Context, userID uint, phone string) (bool, error) {
	owner, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check phone: %w", err)
	}
	return owner.ID != userID, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (s *profileService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == nil {
		return apperrors.ErrPasswordMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.ErrPasswordMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"password": string(hashed)}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

func folderForRole(role model.Role) string {
	switch role {
	case model.RoleTrainer:
		return storage.FolderTrainers
	case model.RoleAdmin:
		return storage.FolderAdmin
	default:
		return storage.FolderMembers
	}
}
