package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a pending friendship request.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship request.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
	// FriendshipStatusDeclined indicates the addressee declined the request.
	FriendshipStatusDeclined FriendshipStatus = "declined"
)

// Valid reports whether s is one of the known statuses.
func (s FriendshipStatus) Valid() bool {
	switch s {
	case FriendshipStatusPending, FriendshipStatusAccepted, FriendshipStatusDeclined:
		return true
	}
	return false
}

// Friendship is the single record describing the relationship of an unordered
// pair of users. RequesterID/AddresseeID keep the direction of the latest request.
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index:idx_friendship_requester" json:"from"`
	AddresseeID uint             `gorm:"not null;index:idx_friendship_addressee" json:"to"`
	Status      FriendshipStatus `gorm:"type:varchar(20);default:'pending';index:idx_friendships_status" json:"status"`
	Message     string           `gorm:"type:text" json:"message,omitempty"`
	PairKey     string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_friendship_pair" json:"-"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relationships
	Requester *User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee *User `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// BeforeSave keeps PairKey in sync with the endpoints. Both directions of the
// same pair produce the same key, so the unique index rejects a second record.
func (f *Friendship) BeforeSave(_ *gorm.DB) error {
	if f.RequesterID != 0 && f.AddresseeID != 0 {
		f.PairKey = PairKey(f.RequesterID, f.AddresseeID)
	}
	return nil
}

// Counterpart returns the endpoint of the friendship that is not userID.
func (f *Friendship) Counterpart(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Involves reports whether userID is one of the endpoints.
func (f *Friendship) Involves(userID uint) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// PairKey returns the canonical key of the unordered pair {a, b}.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
