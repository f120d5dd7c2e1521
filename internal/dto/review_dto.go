package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type ReviewResponse struct {
	ID         uuid.UUID  `json:"id"`
	CourtID    uuid.UUID  `json:"court_id"`
	BookingID  uuid.UUID  `json:"booking_id"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	ReviewedBy *OwnerInfo `json:"reviewed_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type SubmitReviewResponse struct {
	Review      ReviewResponse `json:"review"`
	CourtRating float64        `json:"court_rating"`
}

// ReviewModalResponse pre-fills the review dialog with the booking the
// review will be linked to.
type ReviewModalResponse struct {
	BookingID uuid.UUID           `json:"booking_id"`
	Start     time.Time           `json:"start"`
	End       time.Time           `json:"end"`
	Court     CourtDetailResponse `json:"court"`
}
