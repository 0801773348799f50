package service

import (
	"context"
	"log/slog"

	"github.com/minhhai1907/social-network-BE/internal/middleware"
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/repository"
)

// ReactionService records emoji reactions on posts and comments. A user holds
// at most one reaction per target.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	aggregates   Recalculator
}

// NewReactionService returns a new ReactionService.
func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	aggregates Recalculator,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		aggregates:   aggregates,
	}
}

// ReactInput is one user's reaction on a target.
type ReactInput struct {
	UserID uint
	Target models.ReactionTarget
	Emoji  models.Emoji
}

// ReactionResult is the caller's reaction after React and the target's tally.
type ReactionResult struct {
	TargetType models.TargetKind      `json:"target_type"`
	TargetID   uint                   `json:"target_id"`
	Emoji      *models.Emoji          `json:"emoji"`
	Reactions  *models.ReactionCounts `json:"reactions,omitempty"`
}

// React records in.Emoji for the user on the target. Repeating the current
// emoji removes the reaction; a different emoji replaces it.
func (s *ReactionService) React(ctx context.Context, in ReactInput) (*ReactionResult, error) {
	if !in.Target.Kind.Valid() {
		return nil, models.NewValidationError("Target type must be Post or Comment")
	}
	if !in.Emoji.Valid() {
		return nil, models.NewValidationError("Emoji must be like or dislike")
	}
	if err := s.requireTarget(ctx, in.Target); err != nil {
		return nil, err
	}

	existing, err := s.reactionRepo.FindByAuthor(ctx, in.UserID, in.Target)
	if err != nil {
		return nil, err
	}

	result := &ReactionResult{TargetType: in.Target.Kind, TargetID: in.Target.ID}
	switch {
	case existing == nil:
		reaction := &models.Reaction{
			UserID:     in.UserID,
			TargetType: in.Target.Kind,
			TargetID:   in.Target.ID,
			Emoji:      in.Emoji,
		}
		if err := s.reactionRepo.Create(ctx, reaction); err != nil {
			return nil, err
		}
		result.Emoji = &reaction.Emoji
	case existing.Emoji == in.Emoji:
		if err := s.reactionRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	default:
		if err := s.reactionRepo.UpdateEmoji(ctx, existing.ID, in.Emoji); err != nil {
			return nil, err
		}
		emoji := in.Emoji
		result.Emoji = &emoji
	}

	_ = s.aggregates.TallyReactions(ctx, in.Target)

	// The reaction is stored at this point; a failed read only omits the tally.
	if counts, err := s.currentCounts(ctx, in.Target); err == nil {
		result.Reactions = &counts
	} else {
		middleware.Logger.WarnContext(ctx, "Failed to read reaction tally",
			slog.String("target", in.Target.String()),
			slog.String("error", err.Error()),
		)
	}
	return result, nil
}

func (s *ReactionService) requireTarget(ctx context.Context, target models.ReactionTarget) error {
	var (
		exists bool
		err    error
	)
	switch target.Kind {
	case models.TargetPost:
		exists, err = s.postRepo.Exists(ctx, target.ID)
	case models.TargetComment:
		exists, err = s.commentRepo.Exists(ctx, target.ID)
	}
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError(string(target.Kind), target.ID)
	}
	return nil
}

func (s *ReactionService) currentCounts(ctx context.Context, target models.ReactionTarget) (models.ReactionCounts, error) {
	if target.Kind == models.TargetPost {
		post, err := s.postRepo.GetByID(ctx, target.ID)
		if err != nil {
			return models.ReactionCounts{}, err
		}
		return post.Reactions, nil
	}
	comment, err := s.commentRepo.GetByID(ctx, target.ID)
	if err != nil {
		return models.ReactionCounts{}, err
	}
	return comment.Reactions, nil
}
