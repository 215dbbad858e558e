package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated office member.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Name      string         `gorm:"size:150" json:"name,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Active    bool           `gorm:"not null" json:"active"`
	LastLogin *time.Time     `json:"last_login,omitempty"`
	// ProfileID links the user to an authorization profile used by the admin surface.
	// Users without a profile can use the dashboard but not /admin.
	ProfileID *uint    `gorm:"index" json:"profile_id,omitempty"`
	Profile   *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

// DisplayName prefers the name and falls back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
