package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
)

func TestNoteService_CreateNote(t *testing.T) {
	mockNotes := new(MockNoteRepository)
	mockNotes.On("Create", mock.Anything, mock.AnythingOfType("*model.TrainingNote")).Return(nil)

	svc := NewNoteService(mockNotes, new(MockTrainedByRepository))

	note, err := svc.CreateNote(context.Background(), 7, 3, "focus on squat form")

	assert.NoError(t, err)
	assert.Equal(t, uint(7), note.TrainerID)
	assert.Equal(t, uint(3), note.MemberID)
	assert.Equal(t, model.NoteStatusActive, note.Status)
	assert.False(t, note.StartDate.IsZero())
	mockNotes.AssertExpectations(t)
}

func TestNoteService_UpdateNote_Authorization(t *testing.T) {
	existing := &model.TrainingNote{ID: 1, TrainerID: 7, MemberID: 3, Notes: "old"}

	tests := []struct {
		name          string
		caller        auth.Identity
		expectedError error
		expectsWrite  bool
	}{
		{"creator trainer may write", auth.Identity{UserID: 7, Role: model.RoleTrainer}, nil, true},
		{"admin may write", auth.Identity{UserID: 99, Role: model.RoleAdmin}, nil, true},
		{"other trainer forbidden", auth.Identity{UserID: 8, Role: model.RoleTrainer}, apperrors.ErrForbidden, false},
		{"member forbidden", auth.Identity{UserID: 3, Role: model.RoleMember}, apperrors.ErrForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNotes := new(MockNoteRepository)
			note := *existing
			mockNotes.On("FindByID", mock.Anything, uint(1)).Return(&note, nil)
			if tt.expectsWrite {
				mockNotes.On("Update", mock.Anything, mock.AnythingOfType("*model.TrainingNote")).Return(nil)
			}

			svc := NewNoteService(mockNotes, new(MockTrainedByRepository))

			updated, err := svc.UpdateNote(context.Background(), tt.caller, 1, UpdateNoteInput{Notes: "new"})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, updated)
				mockNotes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "new", updated.Notes)
			}
			mockNotes.AssertExpectations(t)
		})
	}
}

func TestNoteService_UpdateNote_InvalidStatus(t *testing.T) {
	mockNotes := new(MockNoteRepository)
	mockNotes.On("FindByID", mock.Anything, uint(1)).Return(&model.TrainingNote{ID: 1, TrainerID: 7}, nil)

	svc := NewNoteService(mockNotes, new(MockTrainedByRepository))

	updated, err := svc.UpdateNote(context.Background(), auth.Identity{UserID: 7, Role: model.RoleTrainer}, 1, UpdateNoteInput{Status: "archived"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidNoteStatus)
	assert.Nil(t, updated)
	mockNotes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestNoteService_DeleteNote_Authorization(t *testing.T) {
	tests := []struct {
		name          string
		caller        auth.Identity
		expectedError error
	}{
		{"creator trainer may delete", auth.Identity{UserID: 7, Role: model.RoleTrainer}, nil},
		{"other trainer forbidden", auth.Identity{UserID: 8, Role: model.RoleTrainer}, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNotes := new(MockNoteRepository)
			mockNotes.On("FindByID", mock.Anything, uint(1)).Return(&model.TrainingNote{ID: 1, TrainerID: 7}, nil)
			if tt.expectedError == nil {
				mockNotes.On("Delete", mock.Anything, uint(1)).Return(nil)
			}

			svc := NewNoteService(mockNotes, new(MockTrainedByRepository))

			err := svc.DeleteNote(context.Background(), tt.caller, 1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockNotes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			mockNotes.AssertExpectations(t)
		})
	}
}

func TestNoteService_ListMemberNotes_Access(t *testing.T) {
	notes := []model.TrainingNote{{ID: 1, MemberID: 3}}

	tests := []struct {
		name          string
		caller        auth.Identity
		linked        bool
		checksLink    bool
		expectedError error
	}{
		{"admin sees any member", auth.Identity{UserID: 99, Role: model.RoleAdmin}, false, false, nil},
		{"member sees own notes", auth.Identity{UserID: 3, Role: model.RoleMember}, false, false, nil},
		{"member blocked from others", auth.Identity{UserID: 4, Role: model.RoleMember}, false, false, apperrors.ErrForbidden},
		{"assigned trainer allowed", auth.Identity{UserID: 7, Role: model.RoleTrainer}, true, true, nil},
		{"unassigned trainer blocked", auth.Identity{UserID: 7, Role: model.RoleTrainer}, false, true, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNotes := new(MockNoteRepository)
			mockTrained := new(MockTrainedByRepository)
			if tt.checksLink {
				mockTrained.On("Exists", mock.Anything, tt.caller.UserID, uint(3)).Return(tt.linked, nil)
			}
			if tt.expectedError == nil {
				mockNotes.On("ListByMember", mock.Anything, uint(3)).Return(notes, nil)
			}

			svc := NewNoteService(mockNotes, mockTrained)

			result, err := svc.ListMemberNotes(context.Background(), tt.caller, 3)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				mockNotes.AssertNotCalled(t, "ListByMember", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, 1)
			}
			mockTrained.AssertExpectations(t)
			mockNotes.AssertExpectations(t)
		})
	}
}

func TestNoteService_GetNote_NotFound(t *testing.T) {
	mockNotes := new(MockNoteRepository)
	mockNotes.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewNoteService(mockNotes, new(MockTrainedByRepository))

	note, err := svc.GetNote(context.Background(), 42)

	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
	assert.Nil(t, note)
}
