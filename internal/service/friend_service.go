// Package service contains the business logic of the social graph.
package service

import (
	"context"
	"fmt"

	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/observability"
	"github.com/minhhai1907/social-network-BE/internal/repository"
)

// Relationship states reported by GetFriendshipStatus.
const (
	RelationNone            = "none"
	RelationFriends         = "friends"
	RelationPendingSent     = "pending_sent"
	RelationPendingReceived = "pending_received"
	RelationDeclined        = "declined"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	aggregates Recalculator
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, aggregates Recalculator) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		aggregates: aggregates,
	}
}

// SendFriendRequestInput carries the target and optional note of a request.
type SendFriendRequestInput struct {
	To      uint
	Message string
}

// SendFriendRequest opens a pending request from callerID to in.To. A declined
// record for the pair is reopened in the new direction instead of duplicated.
func (s *FriendService) SendFriendRequest(ctx context.Context, callerID uint, in SendFriendRequestInput) (*models.Friendship, error) {
	if callerID == in.To {
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	exists, err := s.userRepo.Exists(ctx, in.To)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", in.To)
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, callerID, in.To)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		friendship := &models.Friendship{
			RequesterID: callerID,
			AddresseeID: in.To,
			Status:      models.FriendshipStatusPending,
			Message:     in.Message,
		}
		if err := s.friendRepo.Create(ctx, friendship); err != nil {
			return nil, err
		}
		observability.RecordTransition("", string(models.FriendshipStatusPending))
		s.recount(ctx, friendship)
		return friendship, nil
	}

	switch existing.Status {
	case models.FriendshipStatusPending:
		if existing.RequesterID == callerID {
			return nil, models.NewConflictError("You have already sent a request to this user")
		}
		return nil, models.NewConflictError("You have received a request from this user")
	case models.FriendshipStatusAccepted:
		return nil, models.NewConflictError("Users are already friends")
	case models.FriendshipStatusDeclined:
		existing.RequesterID = callerID
		existing.AddresseeID = in.To
		existing.Status = models.FriendshipStatusPending
		existing.Message = in.Message
		if err := s.friendRepo.Reopen(ctx, existing); err != nil {
			return nil, err
		}
		observability.RecordTransition(string(models.FriendshipStatusDeclined), string(models.FriendshipStatusPending))
		s.recount(ctx, existing)
		return existing, nil
	default:
		return nil, invalidStatus(existing)
	}
}

// ReactFriendRequest accepts or declines a pending request. Only the recorded
// recipient may respond.
func (s *FriendService) ReactFriendRequest(ctx context.Context, callerID, requestID uint, status models.FriendshipStatus) (*models.Friendship, error) {
	if status != models.FriendshipStatusAccepted && status != models.FriendshipStatusDeclined {
		return nil, models.NewValidationError("Status must be accepted or declined")
	}

	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if friendship.AddresseeID != callerID {
		return nil, models.NewUnauthorizedError("You can only respond to friend requests sent to you")
	}

	switch friendship.Status {
	case models.FriendshipStatusPending:
	case models.FriendshipStatusAccepted, models.FriendshipStatusDeclined:
		return nil, models.NewConflictError("Friend request has already been " + string(friendship.Status))
	default:
		return nil, invalidStatus(friendship)
	}

	if err := s.friendRepo.TransitionStatus(ctx, friendship.ID, models.FriendshipStatusPending, status); err != nil {
		return nil, err
	}
	friendship.Status = status
	observability.RecordTransition(string(models.FriendshipStatusPending), string(status))
	s.recount(ctx, friendship)
	return friendship, nil
}

// CancelFriendRequest withdraws the pending request callerID sent to targetID.
// It returns the removed record, or nil when there was no such request.
func (s *FriendService) CancelFriendRequest(ctx context.Context, callerID, targetID uint) (*models.Friendship, error) {
	removed, err := s.friendRepo.DeletePending(ctx, callerID, targetID)
	if err != nil || removed == nil {
		return nil, err
	}
	observability.RecordTransition(string(models.FriendshipStatusPending), "")
	s.recount(ctx, removed)
	return removed, nil
}

// RemoveFriend deletes the accepted relationship between callerID and
// targetID. It returns the removed record, or nil when they were not friends.
func (s *FriendService) RemoveFriend(ctx context.Context, callerID, targetID uint) (*models.Friendship, error) {
	removed, err := s.friendRepo.RemoveAccepted(ctx, callerID, targetID)
	if err != nil || removed == nil {
		return nil, err
	}
	observability.RecordTransition(string(models.FriendshipStatusAccepted), "")
	s.recount(ctx, removed)
	return removed, nil
}

// FriendshipStatusView describes the relationship between the caller and another user.
type FriendshipStatusView struct {
	Status     string             `json:"status"`
	RequestID  uint               `json:"request_id,omitempty"`
	Friendship *models.Friendship `json:"friendship,omitempty"`
}

// GetFriendshipStatus returns the relationship between callerID and targetID
// as seen from the caller.
func (s *FriendService) GetFriendshipStatus(ctx context.Context, callerID, targetID uint) (*FriendshipStatusView, error) {
	exists, err := s.userRepo.Exists(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", targetID)
	}

	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, callerID, targetID)
	if err != nil {
		return nil, err
	}

	view := &FriendshipStatusView{Status: RelationNone, Friendship: friendship}
	if friendship == nil {
		return view, nil
	}
	switch friendship.Status {
	case models.FriendshipStatusAccepted:
		view.Status = RelationFriends
	case models.FriendshipStatusPending:
		view.RequestID = friendship.ID
		if friendship.RequesterID == callerID {
			view.Status = RelationPendingSent
		} else {
			view.Status = RelationPendingReceived
		}
	case models.FriendshipStatusDeclined:
		view.Status = RelationDeclined
	default:
		return nil, invalidStatus(friendship)
	}
	return view, nil
}

// recount refreshes friend_count of both endpoints. Failures are logged by the
// recalculator and never fail the relationship mutation.
func (s *FriendService) recount(ctx context.Context, friendship *models.Friendship) {
	_ = s.aggregates.RecountFriends(ctx, friendship.RequesterID, friendship.AddresseeID)
}

func invalidStatus(f *models.Friendship) error {
	return models.NewInvalidStateError(fmt.Sprintf("Friend request %d has unknown status %q", f.ID, f.Status))
}
