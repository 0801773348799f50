// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the social graph.
// FriendCount is denormalized and only written by the aggregate recalculator.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;index" json:"name"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	AvatarURL   string         `json:"avatar_url"`
	CoverURL    string         `json:"cover_url"`
	AboutMe     string         `gorm:"type:text" json:"about_me"`
	City        string         `gorm:"index" json:"city"`
	Country     string         `gorm:"index" json:"country"`
	Company     string         `json:"company"`
	JobTitle    string         `json:"job_title"`
	FriendCount int            `gorm:"not null;default:0" json:"friend_count"`
	PostCount   int            `gorm:"->" json:"post_count,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserFilter narrows a directory query. Empty fields are ignored.
type UserFilter struct {
	Name    string
	Email   string
	City    string
	Country string
}

// User sort orders accepted by directory queries.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
)
