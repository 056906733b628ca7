package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mnki/internal/auth"
	apperrors "mnki/internal/errors"
	"mnki/internal/model"
	"mnki/internal/repository"
)

// UpdateNoteInput carries a partial note update; empty/nil fields keep
// their current values.
type UpdateNoteInput struct {
	Notes   string
	Status  model.NoteStatus
	EndDate *time.Time
}

// NoteService handles training notes and their authorization rules.
type NoteService interface {
	CreateNote(ctx context.Context, trainerID, memberID uint, notes string) (*model.TrainingNote, error)
	GetNote(ctx context.Context, id uint) (*model.TrainingNote, error)
	ListTrainerNotes(ctx context.Context, trainerID uint) ([]model.TrainingNote, error)
	ListMemberNotes(ctx context.Context, caller auth.Identity, memberID uint) ([]model.TrainingNote, error)
	UpdateNote(ctx context.Context, caller auth.Identity, id uint, in UpdateNoteInput) (*model.TrainingNote, error)
	DeleteNote(ctx context.Context, caller auth.Identity, id uint) error
}

type noteService struct {
	noteRepo    repository.NoteRepository
	trainedRepo repository.TrainedByRepository
}

// NewNoteService creates a new note service.
func NewNoteService(noteRepo repository.NoteRepository, trainedRepo repository.TrainedByRepository) NoteService {
	return &noteService{
		noteRepo:    noteRepo,
		trainedRepo: trainedRepo,
	}
}

// CreateNote records a new active note with the caller as trainer of record.
func (s *noteService) CreateNote(ctx context.Context, trainerID, memberID uint, notes string) (*model.TrainingNote, error) {
	note := &model.TrainingNote{
		TrainerID: trainerID,
		MemberID:  memberID,
		Notes:     notes,
		Status:    model.NoteStatusActive,
		StartDate: time.Now(),
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// GetNote returns a note with trainer and member projections attached.
func (s *noteService) GetNote(ctx context.Context, id uint) (*model.TrainingNote, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return note, nil
}

// ListTrainerNotes lists the caller's own notes, newest first.
func (s *noteService) ListTrainerNotes(ctx context.Context, trainerID uint) ([]model.TrainingNote, error) {
	notes, err := s.noteRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("list trainer notes: %w", err)
	}
	return notes, nil
}

// ListMemberNotes lists a member's notes after the access check: admins
// pass via the capability table, a member may see their own, a trainer
// needs a trained-by link to the member.
func (s *noteService) ListMemberNotes(ctx context.Context, caller auth.Identity, memberID uint) ([]model.TrainingNote, error) {
	if err := s.checkMemberAccess(ctx, caller, memberID); err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("list member notes: %w", err)
	}
	return notes, nil
}

func (s *noteService) checkMemberAccess(ctx context.Context, caller auth.Identity, memberID uint) error {
	if auth.Can(caller.Role, auth.ActionViewAnyMemberNotes) {
		return nil
	}
	if caller.Role == model.RoleMember && caller.UserID == memberID {
		return nil
	}
	if caller.Role == model.RoleTrainer {
		linked, err := s.trainedRepo.Exists(ctx, caller.UserID, memberID)
		if err != nil {
			return fmt.Errorf("check assignment: %w", err)
		}
		if linked {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

// UpdateNote applies a partial update; only the creating trainer or a
// moderator may write.
func (s *noteService) UpdateNote(ctx context.Context, caller auth.Identity, id uint, in UpdateNoteInput) (*model.TrainingNote, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}

	if !s.canModify(caller, note) {
		return nil, apperrors.ErrForbidden
	}

	if in.Notes != "" {
		note.Notes = in.Notes
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, apperrors.ErrInvalidNoteStatus
		}
		note.Status = in.Status
	}
	if in.EndDate != nil {
		note.EndDate = in.EndDate
	}

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// DeleteNote removes a note under the same restriction as UpdateNote.
func (s *noteService) DeleteNote(ctx context.Context, caller auth.Identity, id uint) error {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoteNotFound
		}
		return fmt.Errorf("find note: %w", err)
	}

	if !s.canModify(caller, note) {
		return apperrors.ErrForbidden
	}

	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (s *noteService) canModify(caller auth.Identity, note *model.TrainingNote) bool {
	return auth.Can(caller.Role, auth.ActionModerateNotes) || note.TrainerID == caller.UserID
}
