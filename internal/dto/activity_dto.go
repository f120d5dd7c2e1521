package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityResponse is one entry of a court's activity feed, with the raw
// actor id resolved to displayable basic info.
type ActivityResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      int             `json:"type"`
	CourtID   uuid.UUID       `json:"court_id"`
	Actor     *OwnerInfo      `json:"actor,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
