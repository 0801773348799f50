package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/minhhai1907/social-network-BE/internal/cache"
	"github.com/minhhai1907/social-network-BE/internal/models"

	"gorm.io/gorm"
)

// postDetailComments is the number of newest comments embedded in a post detail.
const postDetailComments = 20

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter models.PostFilter, limit, offset int) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID returns the post with its author and newest comments. Soft-deleted
// posts are reported as not found.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post

	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		err := r.db.WithContext(ctx).
			Preload("User").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC").Limit(postDetailComments)
			}).
			Preload("Comments.User").
			First(&post, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// List returns one page of the posts matching filter, newest first.
func (r *postRepository) List(ctx context.Context, filter models.PostFilter, limit, offset int) ([]models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(filterPosts(filter)).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	posts := []models.Post{}
	if err := query.
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// Update writes the author-editable fields of a post.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).
		Model(post).
		Select("title", "content", "image_url", "updated_at").
		Updates(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete soft-deletes the post.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func filterPosts(f models.PostFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.AuthorID != 0 {
			db = db.Where("user_id = ?", f.AuthorID)
		}
		if title := strings.TrimSpace(f.Title); title != "" {
			db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
		}
		return db
	}
}
