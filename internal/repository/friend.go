// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"github.com/minhhai1907/social-network-BE/internal/models"

	"gorm.io/gorm"
)

// FriendView selects which relationship records a list view is built from.
type FriendView int

const (
	// ViewFriends matches accepted records touching the user in either direction.
	ViewFriends FriendView = iota
	// ViewIncoming matches pending records addressed to the user.
	ViewIncoming
	// ViewOutgoing matches pending records sent by the user.
	ViewOutgoing
)

func (v FriendView) String() string {
	switch v {
	case ViewFriends:
		return "friends"
	case ViewIncoming:
		return "incoming"
	case ViewOutgoing:
		return "outgoing"
	}
	return "unknown"
}

// FriendRepository defines the interface for friend data operations
type FriendRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error)
	Reopen(ctx context.Context, friendship *models.Friendship) error
	TransitionStatus(ctx context.Context, friendshipID uint, from, to models.FriendshipStatus) error
	DeletePending(ctx context.Context, requesterID, addresseeID uint) (*models.Friendship, error)
	RemoveAccepted(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error)
	ListByView(ctx context.Context, userID uint, view FriendView) ([]models.Friendship, error)
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func pairScope(userID1, userID2 uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userID1, userID2, userID2, userID1)
	}
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		if models.IsUniqueViolation(err) {
			return models.NewConflictError("A friend request already exists between these users")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).First(&friendship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

// GetFriendshipBetweenUsers returns the record of the unordered pair, or nil when none exists.
func (r *friendRepository) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	var friendship models.Friendship

	if err := r.db.WithContext(ctx).
		Scopes(pairScope(userID1, userID2)).
		First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

// Reopen rewrites an existing record in place with its new direction, status and message.
func (r *friendRepository) Reopen(ctx context.Context, friendship *models.Friendship) error {
	if err := r.db.WithContext(ctx).
		Model(friendship).
		Select("requester_id", "addressee_id", "status", "message", "updated_at").
		Updates(friendship).Error; err != nil {
		if models.IsUniqueViolation(err) {
			return models.NewConflictError("A friend request already exists between these users")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// TransitionStatus moves a record from one status to another. The update only
// applies while the stored status still equals from; otherwise Conflict.
func (r *friendRepository) TransitionStatus(ctx context.Context, friendshipID uint, from, to models.FriendshipStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ? AND status = ?", friendshipID, from).
		Update("status", to)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewConflictError("Friend request is no longer " + string(from))
	}
	return nil
}

// DeletePending removes the pending request sent by requesterID to addresseeID.
// It returns the removed record, or nil when there was nothing to remove.
func (r *friendRepository) DeletePending(ctx context.Context, requesterID, addresseeID uint) (*models.Friendship, error) {
	return r.deleteFirst(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("requester_id = ? AND addressee_id = ? AND status = ?",
			requesterID, addresseeID, models.FriendshipStatusPending)
	})
}

// RemoveAccepted removes the accepted record of the pair in either direction.
func (r *friendRepository) RemoveAccepted(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	return r.deleteFirst(ctx, func(db *gorm.DB) *gorm.DB {
		return pairScope(userID1, userID2)(db).Where("status = ?", models.FriendshipStatusAccepted)
	})
}

func (r *friendRepository) deleteFirst(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).Scopes(scope).First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}

	// The status is matched again so a record that changed state since the
	// read, such as a request accepted while being cancelled, survives.
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", friendship.ID, friendship.Status).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return nil, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &friendship, nil
}

// ListByView returns every record of the given view for userID, newest first.
func (r *friendRepository) ListByView(ctx context.Context, userID uint, view FriendView) ([]models.Friendship, error) {
	query := r.db.WithContext(ctx).Model(&models.Friendship{})
	switch view {
	case ViewFriends:
		query = query.Where("status = ? AND (requester_id = ? OR addressee_id = ?)",
			models.FriendshipStatusAccepted, userID, userID)
	case ViewIncoming:
		query = query.Where("status = ? AND addressee_id = ?", models.FriendshipStatusPending, userID)
	case ViewOutgoing:
		query = query.Where("status = ? AND requester_id = ?", models.FriendshipStatusPending, userID)
	default:
		return nil, models.NewValidationError("unknown friend view")
	}

	var friendships []models.Friendship
	if err := query.Order("updated_at DESC").Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return friendships, nil
}
