package model

import (
	"time"

	"github.com/google/uuid"
)

// CourtFollowing is a pure join row: its existence means "is following".
// The unique index is what arbitrates concurrent follow requests; a
// duplicate-key insert is treated as already following.
type CourtFollowing struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CourtID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_court_follower" json:"court_id"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_court_follower" json:"follower_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
