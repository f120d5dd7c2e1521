package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
	"gorm.io/gorm"
)

// MediaRepository covers photos and videos plus their court link rows.
// Deletes are always soft: DateDeleted is set and the row retained.
type MediaRepository interface {
	CreatePhoto(ctx context.Context, photo *model.Photo) error
	LinkPhoto(ctx context.Context, courtID, photoID uuid.UUID) error
	FindCourtPhoto(ctx context.Context, courtID, photoID uuid.UUID) (*model.Photo, error)
	FindCourtPhotos(ctx context.Context, courtID uuid.UUID) ([]*model.Photo, error)
	SoftDeletePhoto(ctx context.Context, photoID uuid.UUID, at time.Time) error

	CreateVideo(ctx context.Context, video *model.Video) error
	LinkVideo(ctx context.Context, courtID, videoID uuid.UUID) error
	FindCourtVideo(ctx context.Context, courtID, videoID uuid.UUID) (*model.Video, error)
	FindCourtVideos(ctx context.Context, courtID uuid.UUID) ([]*model.Video, error)
	SoftDeleteVideo(ctx context.Context, videoID uuid.UUID, at time.Time) error

	WithTx(tx *gorm.DB) MediaRepository
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) WithTx(tx *gorm.DB) MediaRepository {
	return &mediaRepository{db: tx}
}

func (r *mediaRepository) CreatePhoto(ctx context.Context, photo *model.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *mediaRepository) LinkPhoto(ctx context.Context, courtID, photoID uuid.UUID) error {
	link := model.CourtPhoto{
		CourtID: courtID,
		PhotoID: photoID,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

// FindCourtPhoto returns the photo only if it is linked to the given court.
func (r *mediaRepository) FindCourtPhoto(ctx context.Context, courtID, photoID uuid.UUID) (*model.Photo, error) {
	var photo model.Photo
	err := r.db.WithContext(ctx).
		Joins("JOIN court_photos ON court_photos.photo_id = photos.id").
		Where("court_photos.court_id = ? AND photos.id = ? AND photos.date_deleted IS NULL", courtID, photoID).
		First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *mediaRepository) FindCourtPhotos(ctx context.Context, courtID uuid.UUID) ([]*model.Photo, error) {
	var photos []*model.Photo
	err := r.db.WithContext(ctx).
		Joins("JOIN court_photos ON court_photos.photo_id = photos.id").
		Where("court_photos.court_id = ? AND photos.date_deleted IS NULL", courtID).
		Order("photos.date_added DESC").
		Find(&photos).Error
	return photos, err
}

func (r *mediaRepository) SoftDeletePhoto(ctx context.Context, photoID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Photo{}).
		Where("id = ?", photoID).
		Update("date_deleted", at).Error
}

func (r *mediaRepository) CreateVideo(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *mediaRepository) LinkVideo(ctx context.Context, courtID, videoID uuid.UUID) error {
	link := model.CourtVideo{
		CourtID: courtID,
		VideoID: videoID,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *mediaRepository) FindCourtVideo(ctx context.Context, courtID, videoID uuid.UUID) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).
		Joins("JOIN court_videos ON court_videos.video_id = videos.id").
		Where("court_videos.court_id = ? AND videos.id = ? AND videos.date_deleted IS NULL", courtID, videoID).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *mediaRepository) FindCourtVideos(ctx context.Context, courtID uuid.UUID) ([]*model.Video, error) {
	var videos []*model.Video
	err := r.db.WithContext(ctx).
		Joins("JOIN court_videos ON court_videos.video_id = videos.id").
		Where("court_videos.court_id = ? AND videos.date_deleted IS NULL", courtID).
		Order("videos.date_added DESC").
		Find(&videos).Error
	return videos, err
}

func (r *mediaRepository) SoftDeleteVideo(ctx context.Context, videoID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", videoID).
		Update("date_deleted", at).Error
}
