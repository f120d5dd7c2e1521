package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourtReview is written once per booking and never updated or deleted.
// The unique index on BookingID backs the one-review-per-booking rule.
type CourtReview struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourtID      uuid.UUID `gorm:"type:uuid;not null;index" json:"court_id"`
	ReviewedByID uuid.UUID `gorm:"type:uuid;not null" json:"reviewed_by_id"`
	ReviewedBy   *User     `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
	BookingID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	Rating       int       `gorm:"not null" json:"rating"`
	Comment      string    `gorm:"type:text" json:"comment"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *CourtReview) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
