package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking belongs to the booking subsystem; this service reads it and only
// ever writes HasReviewed, which once true is never reset.
type Booking struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CourtID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"court_id"`
	BookedByID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"booked_by_id"`
	Start       time.Time     `gorm:"not null" json:"start"`
	End         time.Time     `gorm:"not null" json:"end"`
	Status      BookingStatus `gorm:"size:20;not null;default:pending" json:"status"`
	HasReviewed bool          `gorm:"not null;default:false" json:"has_reviewed"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID, err = uuid.NewV7()
	}
	return
}
