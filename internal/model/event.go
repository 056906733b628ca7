package model

import "time"

// Event is a promotional or community post shown on the feed. It owns at
// most one remote image; replacing or deleting the event removes the old
// remote object best-effort.
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Images      string    `json:"images" gorm:"size:512"`
	Description string    `json:"description" gorm:"type:text"`
	JoinForm    string    `json:"joinform" gorm:"size:512"`
	PostedAt    time.Time `json:"posted_at" gorm:"index"`
}

// EventLike records a user liking an event. The (user, event) pair is
// unique so a double-like is idempotent rather than a duplicate row.
type EventLike struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	UserID  uint `json:"u_id" gorm:"column:u_id;uniqueIndex:idx_user_event;not null"`
	EventID uint `json:"e_id" gorm:"column:e_id;uniqueIndex:idx_user_event;not null"`
}

// TableName keeps the join table under its historical name.
func (EventLike) TableName() string {
	return "liked_by"
}
