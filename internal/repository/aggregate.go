package repository

import (
	"context"

	"github.com/minhhai1907/social-network-BE/internal/models"

	"gorm.io/gorm"
)

// AggregateRepository counts source records and overwrites the denormalized
// counters derived from them. Counters are always written with a fresh count.
type AggregateRepository interface {
	CountAcceptedFriendships(ctx context.Context, userID uint) (int64, error)
	SetFriendCount(ctx context.Context, userID uint, count int64) error
	CountComments(ctx context.Context, postID uint) (int64, error)
	SetCommentCount(ctx context.Context, postID uint, count int64) error
	CountReactions(ctx context.Context, target models.ReactionTarget) (models.ReactionCounts, error)
	SetReactionCounts(ctx context.Context, target models.ReactionTarget, counts models.ReactionCounts) error
	CommentPostID(ctx context.Context, commentID uint) (uint, error)
	UserIDs(ctx context.Context, afterID uint, limit int) ([]uint, error)
	PostIDs(ctx context.Context, afterID uint, limit int) ([]uint, error)
	CommentIDs(ctx context.Context, afterID uint, limit int) ([]uint, error)
}

type aggregateRepository struct {
	db *gorm.DB
}

// NewAggregateRepository creates a new AggregateRepository
func NewAggregateRepository(db *gorm.DB) AggregateRepository {
	return &aggregateRepository{db: db}
}

func (r *aggregateRepository) CountAcceptedFriendships(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", models.FriendshipStatusAccepted, userID, userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *aggregateRepository) SetFriendCount(ctx context.Context, userID uint, count int64) error {
	return r.setColumns(ctx, &models.User{}, "User", userID, map[string]interface{}{"friend_count": count})
}

func (r *aggregateRepository) CountComments(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *aggregateRepository) SetCommentCount(ctx context.Context, postID uint, count int64) error {
	return r.setColumns(ctx, &models.Post{}, "Post", postID, map[string]interface{}{"comment_count": count})
}

type emojiCount struct {
	Emoji models.Emoji
	Total int
}

// CountReactions groups the reactions on target by emoji. Kinds with no
// reactions are reported as zero.
func (r *aggregateRepository) CountReactions(ctx context.Context, target models.ReactionTarget) (models.ReactionCounts, error) {
	var rows []emojiCount
	if err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("emoji, COUNT(*) AS total").
		Where("target_type = ? AND target_id = ?", target.Kind, target.ID).
		Group("emoji").
		Scan(&rows).Error; err != nil {
		return models.ReactionCounts{}, models.NewInternalError(err)
	}

	var counts models.ReactionCounts
	for _, row := range rows {
		switch row.Emoji {
		case models.EmojiLike:
			counts.Like = row.Total
		case models.EmojiDislike:
			counts.Dislike = row.Total
		}
	}
	return counts, nil
}

func (r *aggregateRepository) SetReactionCounts(ctx context.Context, target models.ReactionTarget, counts models.ReactionCounts) error {
	columns := map[string]interface{}{
		"reactions_like":    counts.Like,
		"reactions_dislike": counts.Dislike,
	}
	switch target.Kind {
	case models.TargetPost:
		return r.setColumns(ctx, &models.Post{}, "Post", target.ID, columns)
	case models.TargetComment:
		return r.setColumns(ctx, &models.Comment{}, "Comment", target.ID, columns)
	default:
		return models.NewValidationError("unknown reaction target " + string(target.Kind))
	}
}

// CommentPostID returns the post a comment belongs to.
func (r *aggregateRepository) CommentPostID(ctx context.Context, commentID uint) (uint, error) {
	var postIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", commentID).
		Limit(1).
		Pluck("post_id", &postIDs).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	if len(postIDs) == 0 {
		return 0, models.NewNotFoundError("Comment", commentID)
	}
	return postIDs[0], nil
}

// setColumns overwrites counter columns without touching updated_at.
func (r *aggregateRepository) setColumns(ctx context.Context, model interface{}, resource string, id uint, columns map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).UpdateColumns(columns)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}

func (r *aggregateRepository) UserIDs(ctx context.Context, afterID uint, limit int) ([]uint, error) {
	return r.ids(ctx, &models.User{}, afterID, limit)
}

func (r *aggregateRepository) PostIDs(ctx context.Context, afterID uint, limit int) ([]uint, error) {
	return r.ids(ctx, &models.Post{}, afterID, limit)
}

func (r *aggregateRepository) CommentIDs(ctx context.Context, afterID uint, limit int) ([]uint, error) {
	return r.ids(ctx, &models.Comment{}, afterID, limit)
}

// ids pages through primary keys in ascending order using keyset pagination.
func (r *aggregateRepository) ids(ctx context.Context, model interface{}, afterID uint, limit int) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
