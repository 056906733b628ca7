package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/repository"
	"mnki/internal/storage"
)

const bcryptCost = 10

// ImageUpload carries an in-memory multipart file on its way to the relay.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Name     string
	Role     model.Role
	Image    ImageUpload
}

// AuthService handles password authentication.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	sessions *auth.SessionService
	images   *storage.ImageStore
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions *auth.SessionService, images *storage.ImageStore) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		images:   images,
	}
}

// Register creates a user with a hashed password and an uploaded avatar.
// The create runs in a transaction; the secondary member-profile row that
// used to be written alongside is disabled pending product clarification,
// but the transaction boundary stays so it can come back as a second insert.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailInUse
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	folder := storage.FolderMembers
	if in.Role == model.RoleTrainer {
		folder = storage.FolderTrainers
	}
	avatarURL, err := s.images.Upload(ctx, folder, in.Image.Filename, in.Image.ContentType, in.Image.Data)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
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

	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		return repo.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the password and issues a session token. An unknown email
// and a wrong password are distinct failures (404 vs 401 at the surface).
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrUserNotFound
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.sessions.IssueToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// GetProfile returns the full profile for the authenticated user.
func (s *authService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
