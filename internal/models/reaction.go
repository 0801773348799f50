package models

import (
	"fmt"
	"time"
)

// TargetKind discriminates what a reaction points at.
type TargetKind string

const (
	TargetPost    TargetKind = "Post"
	TargetComment TargetKind = "Comment"
)

// Valid reports whether k is a known target kind.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetComment
}

// ReactionTarget identifies the post or comment a reaction belongs to.
type ReactionTarget struct {
	Kind TargetKind
	ID   uint
}

// PostTarget returns the reaction target for a post.
func PostTarget(id uint) ReactionTarget {
	return ReactionTarget{Kind: TargetPost, ID: id}
}

// CommentTarget returns the reaction target for a comment.
func CommentTarget(id uint) ReactionTarget {
	return ReactionTarget{Kind: TargetComment, ID: id}
}

func (t ReactionTarget) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// Emoji is the kind of a reaction.
type Emoji string

const (
	EmojiLike    Emoji = "like"
	EmojiDislike Emoji = "dislike"
)

// Valid reports whether e is a known emoji.
func (e Emoji) Valid() bool {
	return e == EmojiLike || e == EmojiDislike
}

// Reaction is one user's emoji on a post or comment.
// A user holds at most one reaction per target.
type Reaction struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_reaction_author_target" json:"author_id"`
	TargetType TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_reaction_author_target;index:idx_reaction_target" json:"target_type"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_reaction_author_target;index:idx_reaction_target" json:"target_id"`
	Emoji      Emoji      `gorm:"type:varchar(16);not null" json:"emoji"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Target returns the tagged target of the reaction.
func (r *Reaction) Target() ReactionTarget {
	return ReactionTarget{Kind: r.TargetType, ID: r.TargetID}
}
