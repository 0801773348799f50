package repository

import (
	"context"
	"errors"

	"github.com/minhhai1907/social-network-BE/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository stores per-user reactions on posts and comments.
type ReactionRepository interface {
	FindByAuthor(ctx context.Context, userID uint, target models.ReactionTarget) (*models.Reaction, error)
	Create(ctx context.Context, reaction *models.Reaction) error
	UpdateEmoji(ctx context.Context, id uint, emoji models.Emoji) error
	Delete(ctx context.Context, id uint) error
	DeleteByTarget(ctx context.Context, target models.ReactionTarget) error
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func targetScope(target models.ReactionTarget) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("target_type = ? AND target_id = ?", target.Kind, target.ID)
	}
}

// FindByAuthor returns userID's reaction on target, or nil when there is none.
func (r *reactionRepository) FindByAuthor(ctx context.Context, userID uint, target models.ReactionTarget) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := r.db.WithContext(ctx).
		Scopes(targetScope(target)).
		Where("user_id = ?", userID).
		First(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		if models.IsUniqueViolation(err) {
			return models.NewConflictError("You have already reacted to this " + string(reaction.TargetType))
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) UpdateEmoji(ctx context.Context, id uint, emoji models.Emoji) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("id = ?", id).
		Update("emoji", emoji).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Reaction{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteByTarget removes every reaction on target. Used when a comment is deleted.
func (r *reactionRepository) DeleteByTarget(ctx context.Context, target models.ReactionTarget) error {
	if err := r.db.WithContext(ctx).Scopes(targetScope(target)).Delete(&models.Reaction{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
