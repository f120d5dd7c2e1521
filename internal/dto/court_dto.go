package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterCourtRequest struct {
	Name          string  `json:"name" binding:"required,min=3,max=255"`
	Description   string  `json:"description" binding:"max=2000"`
	Address       string  `json:"address" binding:"required,max=500"`
	ContactNumber string  `json:"contact_number" binding:"max=50"`
	RatePerHour   float64 `json:"rate_per_hour" binding:"gte=0"`
}

type UpdateCourtRequest struct {
	Name          string  `json:"name" binding:"required,min=3,max=255"`
	Description   string  `json:"description" binding:"max=2000"`
	Address       string  `json:"address" binding:"required,max=500"`
	ContactNumber string  `json:"contact_number" binding:"max=50"`
	RatePerHour   float64 `json:"rate_per_hour" binding:"gte=0"`
}

type SetCourtStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

type SearchCourtsRequest struct {
	Query string `json:"query" binding:"required,min=1,max=255"`
}

// OwnerInfo is the basic-info subset exposed for owners and reviewers.
type OwnerInfo struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// CourtDetailResponse is the court detail view: raw fields plus the derived
// aggregates recomputed on every read.
type CourtDetailResponse struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Address       string         `json:"address"`
	ContactNumber string         `json:"contact_number"`
	RatePerHour   float64        `json:"rate_per_hour"`
	Status        string         `json:"status"`
	Rating        float64        `json:"rating"`
	PrimaryPhoto  *PhotoResponse `json:"primary_photo,omitempty"`
	Owner         *OwnerInfo     `json:"owner,omitempty"`
	FollowerCount int64          `json:"follower_count"`
	ReviewCount   int64          `json:"review_count"`
	IsFollowed    bool           `json:"is_followed"`
	CanReview     bool           `json:"can_review"`
	CreatedAt     time.Time      `json:"created_at"`
}

// FollowResult reports what actually happened: repeated follow/unfollow
// calls succeed without a state change.
type FollowResult struct {
	IsFollowing      bool  `json:"is_following"`
	AlreadyFollowing bool  `json:"already_following"`
	Changed          bool  `json:"changed"`
	FollowerCount    int64 `json:"follower_count"`
}
