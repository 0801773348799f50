package models

import (
	"time"

	"gorm.io/gorm"
)

// ReactionCounts is the denormalized per-emoji tally stored on posts and comments.
type ReactionCounts struct {
	Like    int `gorm:"not null;default:0" json:"like"`
	Dislike int `gorm:"not null;default:0" json:"dislike"`
}

// PostFilter narrows the post feed. Zero fields are ignored.
type PostFilter struct {
	AuthorID uint
	// Title matches posts whose title contains it, case-insensitively.
	Title string
}

// Post represents a post authored by a user.
// CommentCount and Reactions are maintained by the aggregate recalculator.
type Post struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	ImageURL     string         `json:"image_url,omitempty"`
	UserID       uint           `gorm:"not null;index" json:"author_id"`
	User         *User          `gorm:"foreignKey:UserID" json:"author,omitempty"`
	CommentCount int            `gorm:"not null;default:0" json:"comment_count"`
	Reactions    ReactionCounts `gorm:"embedded;embeddedPrefix:reactions_" json:"reactions"`
	Comments     []Comment      `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Comment represents a comment on a post.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	UserID    uint           `gorm:"not null;index" json:"author_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Reactions ReactionCounts `gorm:"embedded;embeddedPrefix:reactions_" json:"reactions"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
