package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/repository"
)

const (
	maxPostTitleLen   = 200
	maxPostContentLen = 20000
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	ImageURL string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// PostPage is one page of the post feed, newest first.
type PostPage struct {
	Posts      []models.Post `json:"posts"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func validateImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return models.NewValidationError("Image URL must be an http(s) URL")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxPostTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 20000 characters)")
	}
	if err := validateImageURL(in.ImageURL); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// ListPosts returns one page of the feed narrowed by filter.
func (s *PostService) ListPosts(ctx context.Context, filter models.PostFilter, page, limit int) (*PostPage, error) {
	q := models.ListQuery{Page: page, Limit: limit}.Normalize()
	posts, total, err := s.postRepo.List(ctx, filter, q.Limit, q.Offset())
	if err != nil {
		return nil, err
	}
	return &PostPage{
		Posts:      posts,
		Total:      total,
		TotalPages: models.TotalPages(total, q.Limit),
		Page:       q.Page,
		Limit:      q.Limit,
	}, nil
}

// UpdatePost changes the non-empty fields of in. Only the author may edit.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		if len(title) > maxPostTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		post.Title = title
	}
	if strings.TrimSpace(in.Content) != "" {
		if len(in.Content) > maxPostContentLen {
			return nil, models.NewValidationError("Content too long (max 20000 characters)")
		}
		post.Content = in.Content
	}
	if in.ImageURL != "" {
		if err := validateImageURL(in.ImageURL); err != nil {
			return nil, err
		}
		post.ImageURL = in.ImageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost soft-deletes a post. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}
