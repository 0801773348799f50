package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/minhhai1907/social-network-BE/internal/cache"
	"github.com/minhhai1907/social-network-BE/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, q models.ListQuery) ([]models.User, int64, error)
	ListByIDs(ctx context.Context, ids []uint, q models.ListQuery) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", email)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// Exists reports whether a live (not soft-deleted) user has the given id.
func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if models.IsUniqueViolation(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update writes profile fields. FriendCount is owned by the aggregate
// recalculator and is never written here.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).
		Model(user).
		Select("name", "avatar_url", "cover_url", "about_me", "city", "country", "company", "job_title", "updated_at").
		Updates(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// List returns one page of the user directory.
func (r *userRepository) List(ctx context.Context, q models.ListQuery) ([]models.User, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&models.User{}), q)
}

// ListByIDs returns one page of the directory restricted to ids.
func (r *userRepository) ListByIDs(ctx context.Context, ids []uint, q models.ListQuery) ([]models.User, int64, error) {
	if len(ids) == 0 {
		return []models.User{}, 0, nil
	}
	return r.page(r.db.WithContext(ctx).Model(&models.User{}).Where("id IN ?", ids), q)
}

func (r *userRepository) page(query *gorm.DB, q models.ListQuery) ([]models.User, int64, error) {
	q = q.Normalize()
	query = filterUsers(q.Filter)(query).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	users := []models.User{}
	if total == 0 {
		return users, 0, nil
	}
	if err := query.
		Order(userOrder(q.Sort)).
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

func filterUsers(f models.UserFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if name := strings.TrimSpace(f.Name); name != "" {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
		}
		if email := strings.TrimSpace(f.Email); email != "" {
			db = db.Where("email = ?", strings.ToLower(email))
		}
		if city := strings.TrimSpace(f.City); city != "" {
			db = db.Where("LOWER(city) = ?", strings.ToLower(city))
		}
		if country := strings.TrimSpace(f.Country); country != "" {
			db = db.Where("LOWER(country) = ?", strings.ToLower(country))
		}
		return db
	}
}

func userOrder(sort string) string {
	switch sort {
	case models.SortOldest:
		return "created_at ASC, id ASC"
	case models.SortNameAsc:
		return "name ASC, id ASC"
	case models.SortNameDesc:
		return "name DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}
