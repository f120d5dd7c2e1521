package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityType int

// Court-related activity types occupy the 41-60 range of the platform-wide
// activity enum.
const (
	ActivityAddCourt             ActivityType = 41
	ActivityUpdateCourt          ActivityType = 42
	ActivityDeleteCourt          ActivityType = 43
	ActivityFollowCourt          ActivityType = 44
	ActivityUnfollowCourt        ActivityType = 45
	ActivityAddCourtPhotos       ActivityType = 46
	ActivityDeleteCourtPhotos    ActivityType = 47
	ActivityAddCourtVideos       ActivityType = 48
	ActivityDeleteCourtVideos    ActivityType = 49
	ActivitySetCourtPrimaryPhoto ActivityType = 50
	ActivityReviewCourt          ActivityType = 51
)

// Activity is append-only: rows are created after a mutation commits and are
// never updated or deleted.
type Activity struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"actor_id"`
	Type      ActivityType   `gorm:"not null" json:"type"`
	CourtID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"court_id"`
	Payload   datatypes.JSON `json:"payload,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}
