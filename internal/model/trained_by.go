package model

import "time"

// TrainedBy links a trainer to a member they are assigned to. The pair is
// unique; it is what scopes a trainer's visibility into the member list.
type TrainedBy struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TrainerID uint      `json:"trainer_id" gorm:"uniqueIndex:idx_trainer_member;not null"`
	MemberID  uint      `json:"member_id" gorm:"uniqueIndex:idx_trainer_member;not null"`
	CreatedAt time.Time `json:"created_at"`

	Trainer *User `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Member  *User `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

// TableName keeps the relation under its historical name.
func (TrainedBy) TableName() string {
	return "trained_by"
}
