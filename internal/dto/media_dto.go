package dto

import (
	"time"

	"github.com/google/uuid"
)

type PhotoResponse struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	UploadedByID uuid.UUID `json:"uploaded_by_id"`
	DateAdded    time.Time `json:"date_added"`
}

type VideoResponse struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	UploadedByID uuid.UUID `json:"uploaded_by_id"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	DateAdded    time.Time `json:"date_added"`
}

// AddPhotosResponse reports batch-level partial success: files that failed
// do not undo files already committed.
type AddPhotosResponse struct {
	Photos []PhotoResponse `json:"photos"`
	Failed []string        `json:"failed,omitempty"`
}
