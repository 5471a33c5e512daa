package models

import (
	"time"
)

// User represents a registered account. Identity attribution on posts uses
// the stable ID; DisplayName resolves what other users see.
type User struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Username string `gorm:"not null" json:"username"`
	// Nickname is the optional display name set via the profile endpoint.
	Nickname  string    `json:"nickname,omitempty"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName returns the nickname when set, falling back to the username
// and finally the email address.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
