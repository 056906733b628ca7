package model

import "time"

// NoteStatus is the lifecycle state of a training note.
type NoteStatus string

const (
	NoteStatusActive    NoteStatus = "active"
	NoteStatusCompleted NoteStatus = "completed"
	NoteStatusOnHold    NoteStatus = "on-hold"
)

// Valid reports whether s is one of the known statuses.
func (s NoteStatus) Valid() bool {
	switch s {
	case NoteStatusActive, NoteStatusCompleted, NoteStatusOnHold:
		return true
	}
	return false
}

// TrainingNote is a trainer-authored record about a member's training.
// Only the creating trainer or an admin may modify or delete it.
type TrainingNote struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	TrainerID uint       `json:"trainer_id" gorm:"not null;index"`
	MemberID  uint       `json:"member_id" gorm:"not null;index"`
	Notes     string     `json:"notes" gorm:"type:text;not null"`
	Status    NoteStatus `json:"status" gorm:"size:20;not null;default:'active'"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Trainer *User `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Member  *User `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

// TableName keeps the table under its historical name.
func (TrainingNote) TableName() string {
	return "training_assignments"
}
