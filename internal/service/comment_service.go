package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/minhhai1907/social-network-BE/internal/middleware"
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo  repository.CommentRepository
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	aggregates   Recalculator
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

// CommentPage is one page of a post's comments, newest first.
type CommentPage struct {
	Comments   []models.Comment `json:"comments"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	reactionRepo repository.ReactionRepository,
	aggregates Recalculator,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		aggregates:   aggregates,
	}
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return nil
}

func (s *CommentService) requirePost(ctx context.Context, postID uint) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}
	if err := s.requirePost(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	_ = s.aggregates.RecountComments(ctx, comment.PostID)

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns one page of the comments on a post.
func (s *CommentService) ListComments(ctx context.Context, postID uint, page, limit int) (*CommentPage, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	q := models.ListQuery{Page: page, Limit: limit}.Normalize()

	comments, total, err := s.commentRepo.ListByPost(ctx, postID, q.Limit, q.Offset())
	if err != nil {
		return nil, err
	}
	return &CommentPage{
		Comments:   comments,
		Total:      total,
		TotalPages: models.TotalPages(total, q.Limit),
		Page:       q.Page,
		Limit:      q.Limit,
	}, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	_ = s.aggregates.RecountComments(ctx, comment.PostID)

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment and its reactions. Only the author may delete.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}
	if err := s.reactionRepo.DeleteByTarget(ctx, models.CommentTarget(comment.ID)); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to remove reactions of deleted comment",
			slog.Uint64("comment_id", uint64(comment.ID)),
			slog.String("error", err.Error()),
		)
	}
	_ = s.aggregates.RecountComments(ctx, comment.PostID)

	return comment, nil
}
