package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo rows are never hard-deleted; DateDeleted marks a soft delete and the
// row is kept for history.
type Photo struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	URL          string     `gorm:"type:text;not null" json:"url"`
	UploadedByID uuid.UUID  `gorm:"type:uuid;not null" json:"uploaded_by_id"`
	DateAdded    time.Time  `gorm:"autoCreateTime" json:"date_added"`
	DateDeleted  *time.Time `json:"date_deleted,omitempty"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// CourtPhoto links a photo to the court it belongs to.
type CourtPhoto struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	CourtID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_court_photo" json:"court_id"`
	PhotoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_court_photo" json:"photo_id"`
}

type Video struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	URL          string     `gorm:"type:text;not null" json:"url"`
	UploadedByID uuid.UUID  `gorm:"type:uuid;not null" json:"uploaded_by_id"`
	Size         int64      `json:"size"`
	ContentType  string     `gorm:"size:100" json:"content_type"`
	DateAdded    time.Time  `gorm:"autoCreateTime" json:"date_added"`
	DateDeleted  *time.Time `json:"date_deleted,omitempty"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}

type CourtVideo struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	CourtID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_court_video" json:"court_id"`
	VideoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_court_video" json:"video_id"`
}
