package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"mnki/internal/model"
	"mnki/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ListMembers(ctx context.Context, q repository.MemberQuery) ([]model.User, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.UserRepository) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m)
}

// MockTrainedByRepository is a mock implementation of repository.TrainedByRepository.
type MockTrainedByRepository struct {
	mock.Mock
}

func (m *MockTrainedByRepository) Exists(ctx context.Context, trainerID, memberID uint) (bool, error) {
	args := m.Called(ctx, trainerID, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrainedByRepository) ListByTrainer(ctx context.Context, trainerID uint) ([]model.TrainedBy, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrainedBy), args.Error(1)
}

// MockNoteRepository is a mock implementation of repository.NoteRepository.
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *model.TrainingNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Update(ctx context.Context, note *model.TrainingNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNoteRepository) FindByID(ctx context.Context, id uint) (*model.TrainingNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrainingNote), args.Error(1)
}

func (m *MockNoteRepository) ListByMember(ctx context.Context, memberID uint) ([]model.TrainingNote, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrainingNote), args.Error(1)
}

func (m *MockNoteRepository) ListByTrainer(ctx context.Context, trainerID uint) ([]model.TrainingNote, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrainingNote), args.Error(1)
}

// MockEventRepository is a mock implementation of repository.EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, offset, limit int) ([]model.Event, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) Like(ctx context.Context, userID, eventID uint) (*model.EventLike, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventLike), args.Error(1)
}

func (m *MockEventRepository) Unlike(ctx context.Context, userID, eventID uint) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

func (m *MockEventRepository) ListLikesByUser(ctx context.Context, userID uint) ([]model.EventLike, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventLike), args.Error(1)
}

// MockObjectStorage is a mock implementation of storage.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) Bucket() string {
	args := m.Called()
	return args.String(0)
}
