package model

import "time"

// Role is the closed set of authorization roles.
type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// User represents a gym account: a member, a trainer, or an admin.
// Exactly one of PasswordHash or (Provider, ProviderID) is meaningful
// for login; OAuth-only users carry a nil password hash.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Name         string     `json:"name" gorm:"size:255;not null;index"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash *string    `json:"-" gorm:"column:password;size:255"` // Never expose in JSON
	Role         Role       `json:"role" gorm:"size:50;not null;default:'member';index"`
	Avatar       string     `json:"avatar" gorm:"size:512"`
	Provider     *string    `json:"provider,omitempty" gorm:"size:50"`
	ProviderID   *string    `json:"provider_id,omitempty" gorm:"size:255"`
	PhoneNo      *string    `json:"phone_no" gorm:"uniqueIndex;size:32"`
	LastActivity *time.Time `json:"last_activity"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	TrainedBy []TrainedBy `json:"trained_by,omitempty" gorm:"foreignKey:MemberID"`
}

// PublicUser is the minimal projection returned by login and registration.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// Public strips credential and contact fields from a user row.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Avatar:   u.Avatar,
	}
}
