package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourtStatus string

const (
	CourtStatusActive   CourtStatus = "active"
	CourtStatusInactive CourtStatus = "inactive"
	CourtStatusDeleted  CourtStatus = "deleted"
)

type Court struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string      `gorm:"size:255;not null" json:"name"`
	Description    string      `gorm:"type:text" json:"description"`
	Address        string      `gorm:"size:500" json:"address"`
	ContactNumber  string      `gorm:"size:50" json:"contact_number"`
	RatePerHour    float64     `json:"rate_per_hour"`
	OwnerID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner          *User       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	PrimaryPhotoID *uuid.UUID  `gorm:"type:uuid" json:"primary_photo_id,omitempty"`
	PrimaryPhoto   *Photo      `gorm:"foreignKey:PrimaryPhotoID" json:"primary_photo,omitempty"`
	Status         CourtStatus `gorm:"size:20;not null;default:active" json:"status"`
	// Rating is the cached average of all reviews; it is recomputed and
	// persisted inside the same transaction as every review write.
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Court) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
