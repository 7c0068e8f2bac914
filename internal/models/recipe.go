package models

import (
	"time"
)

// Recipe is a user-owned recipe. Deleting the owner removes the recipe,
// deleting the recipe removes its comments.
type Recipe struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"userId"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Ingredients  string    `gorm:"type:text;not null" json:"ingredients"`
	Instructions string    `gorm:"type:text;not null" json:"instructions"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Comments []Comment `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}
