// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account. The RefreshToken column holds the
// single currently-valid refresh token; it is nil exactly when the user has
// no active session.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	FullName       string    `gorm:"not null" json:"fullName"`
	Headline       string    `json:"headline"`
	ProfilePicture string    `json:"profilePicture"`
	RefreshToken   *string   `gorm:"type:text" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Recipes  []Recipe  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"recipes,omitempty"`
	Comments []Comment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// PublicUser is the projection of a user exposed on read endpoints and
// nested under recipes and comments.
type PublicUser struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	FullName       string    `json:"fullName,omitempty"`
	Headline       string    `json:"headline,omitempty"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// Public returns the full public projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		Headline:       u.Headline,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
	}
}

// HasActiveSession reports whether a refresh token is currently stored
// for the user.
func (u *User) HasActiveSession() bool {
	return u.RefreshToken != nil && *u.RefreshToken != ""
}
