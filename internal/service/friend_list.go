package service

import (
	"context"
	"time"

	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/repository"
)

// FriendshipSummary is the relationship record attached to a listed user.
type FriendshipSummary struct {
	ID        uint                    `json:"id"`
	From      uint                    `json:"from"`
	To        uint                    `json:"to"`
	Status    models.FriendshipStatus `json:"status"`
	Message   string                  `json:"message,omitempty"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// FriendUser is a user in a relationship list together with the record that
// put them there.
type FriendUser struct {
	models.User
	Friendship *FriendshipSummary `json:"friendship"`
}

// FriendPage is one page of a relationship list.
type FriendPage struct {
	Users      []FriendUser `json:"users"`
	Total      int64        `json:"total"`
	TotalPages int          `json:"total_pages"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
}

// FriendListService builds the friends, incoming and outgoing views of a user.
type FriendListService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendListService returns a new FriendListService.
func NewFriendListService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendListService {
	return &FriendListService{friendRepo: friendRepo, userRepo: userRepo}
}

// ListFriends returns the users callerID is friends with.
func (s *FriendListService) ListFriends(ctx context.Context, callerID uint, q models.ListQuery) (*FriendPage, error) {
	return s.list(ctx, callerID, repository.ViewFriends, q)
}

// ListIncoming returns the users with a pending request to callerID.
func (s *FriendListService) ListIncoming(ctx context.Context, callerID uint, q models.ListQuery) (*FriendPage, error) {
	return s.list(ctx, callerID, repository.ViewIncoming, q)
}

// ListOutgoing returns the users callerID has a pending request to.
func (s *FriendListService) ListOutgoing(ctx context.Context, callerID uint, q models.ListQuery) (*FriendPage, error) {
	return s.list(ctx, callerID, repository.ViewOutgoing, q)
}

func (s *FriendListService) list(ctx context.Context, callerID uint, view repository.FriendView, q models.ListQuery) (*FriendPage, error) {
	q = q.Normalize()

	records, err := s.friendRepo.ListByView(ctx, callerID, view)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].Counterpart(callerID))
	}

	users, total, err := s.userRepo.ListByIDs(ctx, ids, q)
	if err != nil {
		return nil, err
	}

	page := &FriendPage{
		Users:      make([]FriendUser, 0, len(users)),
		Total:      total,
		TotalPages: models.TotalPages(total, q.Limit),
		Page:       q.Page,
		Limit:      q.Limit,
	}
	for _, u := range users {
		page.Users = append(page.Users, FriendUser{
			User:       u,
			Friendship: summarize(records, callerID, u.ID),
		})
	}
	return page, nil
}

// summarize returns the first record linking callerID and userID. The pair
// index guarantees there is at most one.
func summarize(records []models.Friendship, callerID, userID uint) *FriendshipSummary {
	for i := range records {
		f := &records[i]
		if f.Counterpart(callerID) != userID {
			continue
		}
		return &FriendshipSummary{
			ID:        f.ID,
			From:      f.RequesterID,
			To:        f.AddresseeID,
			Status:    f.Status,
			Message:   f.Message,
			UpdatedAt: f.UpdatedAt,
		}
	}
	return nil
}
