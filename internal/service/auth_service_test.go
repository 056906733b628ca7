package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/storage"
)

func testImageStore(backend *MockObjectStorage) *storage.ImageStore {
	backend.On("Bucket").Return("test-bucket").Maybe()
	return storage.NewImageStore(backend, "http://localhost:9000")
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository, *MockObjectStorage)
		expectedError error
	}{
		{
			name: "successful registration",
			input: RegisterInput{
				Email:    "new@example.com",
				Username: "new",
				Password: "password123",
				Name:     "New User",
				Role:     model.RoleMember,
				Image:    ImageUpload{Filename: "a.png", ContentType: "image/png", Data: []byte("img")},
			},
			setupMock: func(mRepo *MockUserRepository, mStore *MockObjectStorage) {
				mRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, int64(3), "image/png").Return(nil)
				mRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "email already in use",
			input: RegisterInput{
				Email:    "taken@example.com",
				Username: "taken",
				Password: "password123",
				Name:     "Taken User",
				Role:     model.RoleMember,
				Image:    ImageUpload{Filename: "a.png", ContentType: "image/png", Data: []byte("img")},
			},
			setupMock: func(mRepo *MockUserRepository, mStore *MockObjectStorage) {
				mRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailInUse,
		},
		{
			name: "upload failure surfaces before any write",
			input: RegisterInput{
				Email:    "new@example.com",
				Username: "new",
				Password: "password123",
				Name:     "New User",
				Role:     model.RoleTrainer,
				Image:    ImageUpload{Filename: "a.png", ContentType: "image/png", Data: []byte("img")},
			},
			setupMock: func(mRepo *MockUserRepository, mStore *MockObjectStorage) {
				mRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, int64(3), "image/png").Return(assert.AnError)
			},
			expectedError: apperrors.ErrUploadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockStore := new(MockObjectStorage)
			tt.setupMock(mockRepo, mockStore)

			sessions := auth.NewSessionService("test-secret", false)
			svc := NewAuthService(mockRepo, sessions, testImageStore(mockStore))

			user, err := svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.input.Email, user.Email)
				assert.NotNil(t, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(tt.input.Password)))
				assert.Contains(t, user.Avatar, "http://localhost:9000/test-bucket/members/")
			}

			mockRepo.AssertExpectations(t)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	hashedStr := string(hashed)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           1,
					Email:        "test@example.com",
					Role:         model.RoleMember,
					PasswordHash: &hashedStr,
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           1,
					Email:        "test@example.com",
					Role:         model.RoleMember,
					PasswordHash: &hashedStr,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "oauth-only account has no password",
			email:    "oauth@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "oauth@example.com").Return(&model.User{
					ID:    2,
					Email: "oauth@example.com",
					Role:  model.RoleMember,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			sessions := auth.NewSessionService("test-secret", false)
			svc := NewAuthService(mockRepo, sessions, testImageStore(new(MockObjectStorage)))

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.NotNil(t, user)

				claims, verr := sessions.VerifyToken(token)
				assert.NoError(t, verr)
				assert.Equal(t, user.ID, claims.UserID)
				assert.Equal(t, user.Role, claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
