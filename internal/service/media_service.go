package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/dto"
	"github.com/hooplab/courtside/internal/model"
	"github.com/hooplab/courtside/internal/repository"
	"github.com/hooplab/courtside/pkg/apperror"
	"github.com/hooplab/courtside/pkg/storage"
	"gorm.io/gorm"
)

type MediaService interface {
	AddPhotos(ctx context.Context, actor Actor, courtID uuid.UUID, files []*multipart.FileHeader) (*dto.AddPhotosResponse, error)
	SetPrimaryPhoto(ctx context.Context, actor Actor, courtID uuid.UUID, file *multipart.FileHeader) (*dto.PhotoResponse, error)
	GetCourtPhotos(ctx context.Context, courtID uuid.UUID) ([]*dto.PhotoResponse, error)
	DeletePhoto(ctx context.Context, actor Actor, courtID, photoID uuid.UUID) error

	AddVideo(ctx context.Context, actor Actor, courtID uuid.UUID, file *multipart.FileHeader) (*dto.VideoResponse, error)
	GetCourtVideos(ctx context.Context, courtID uuid.UUID) ([]*dto.VideoResponse, error)
	DeleteVideo(ctx context.Context, actor Actor, courtID, videoID uuid.UUID) error
}

type mediaService struct {
	courtRepo   repository.CourtRepository
	mediaRepo   repository.MediaRepository
	txManager   repository.TxManager
	activities  ActivityService
	fileStorage storage.MediaStorage
}

func NewMediaService(
	courtRepo repository.CourtRepository,
	mediaRepo repository.MediaRepository,
	txManager repository.TxManager,
	activities ActivityService,
	fileStorage storage.MediaStorage,
) MediaService {
	return &mediaService{
		courtRepo:   courtRepo,
		mediaRepo:   mediaRepo,
		txManager:   txManager,
		activities:  activities,
		fileStorage: fileStorage,
	}
}

// AddPhotos uploads a batch. Each file is its own atomic unit: a failing file
// never rolls back files already committed, and the batch reports partial
// success. One activity record covers the whole batch.
func (s *mediaService) AddPhotos(ctx context.Context, actor Actor, courtID uuid.UUID, files []*multipart.FileHeader) (*dto.AddPhotosResponse, error) {
	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, court.OwnerID, PermissionAddPhotoNotOwned) {
		return nil, apperror.Forbidden("app.Error_AddCourtPhotoNotAuthorized",
			fmt.Sprintf("authorization failed when adding photos to court %s", courtID))
	}

	resp := &dto.AddPhotosResponse{}
	var photoIDs []uuid.UUID

	for _, file := range files {
		photo, err := s.addCourtPhoto(ctx, actor, courtID, file)
		if err != nil {
			log.Printf("Failed to add photo %q to court %s: %v", file.Filename, courtID, err)
			resp.Failed = append(resp.Failed, file.Filename)
			continue
		}
		photoIDs = append(photoIDs, photo.ID)
		resp.Photos = append(resp.Photos, dto.PhotoResponse{
			ID:           photo.ID,
			URL:          photo.URL,
			UploadedByID: photo.UploadedByID,
			DateAdded:    photo.DateAdded,
		})
	}

	if len(photoIDs) > 0 {
		s.activities.Record(ctx, actor.ID, model.ActivityAddCourtPhotos, courtID, photoIDs)
	}

	return resp, nil
}

// addCourtPhoto uploads the bytes first (locator before any DB write), then
// inserts the photo and its link row in one atomic unit.
func (s *mediaService) addCourtPhoto(ctx context.Context, actor Actor, courtID uuid.UUID, file *multipart.FileHeader) (*model.Photo, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	url, err := s.fileStorage.UploadImage(ctx, f, "courts", file.Filename)
	if err != nil {
		return nil, err
	}

	photo := &model.Photo{
		URL:          url,
		UploadedByID: actor.ID,
	}

	err = s.txManager.RunAtomic(ctx, func(tx *gorm.DB) error {
		txMedia := s.mediaRepo.WithTx(tx)
		if err := txMedia.CreatePhoto(ctx, photo); err != nil {
			return err
		}
		return txMedia.LinkPhoto(ctx, courtID, photo.ID)
	})
	if err != nil {
		s.discardUpload(ctx, url)
		return nil, err
	}
	return photo, nil
}

// discardUpload removes uploaded bytes whose database unit never committed,
// so a failed unit does not strand an orphaned object in storage.
func (s *mediaService) discardUpload(ctx context.Context, url string) {
	if err := s.fileStorage.Delete(ctx, url); err != nil {
		log.Printf("Failed to remove orphaned upload %s: %v", url, err)
	}
}

// SetPrimaryPhoto inserts the photo, links it to the court and repoints the
// court's primary photo as one unit: the court must never reference a photo
// that was not durably linked.
func (s *mediaService) SetPrimaryPhoto(ctx context.Context, actor Actor, courtID uuid.UUID, file *multipart.FileHeader) (*dto.PhotoResponse, error) {
	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, court.OwnerID, PermissionUpdateCourtNotOwned) {
		return nil, apperror.Forbidden("app.Error_UpdateCourtNotAuthorized",
			fmt.Sprintf("authorization failed when setting primary photo of court %s", courtID))
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	url, err := s.fileStorage.UploadImage(ctx, f, "courts", file.Filename)
	if err != nil {
		return nil, err
	}

	photo := &model.Photo{
		URL:          url,
		UploadedByID: actor.ID,
	}

	err = s.txManager.RunAtomic(ctx, func(tx *gorm.DB) error {
		txMedia := s.mediaRepo.WithTx(tx)
		txCourt := s.courtRepo.WithTx(tx)
		if err := txMedia.CreatePhoto(ctx, photo); err != nil {
			return err
		}
		if err := txMedia.LinkPhoto(ctx, courtID, photo.ID); err != nil {
			return err
		}
		return txCourt.SetPrimaryPhoto(ctx, courtID, photo.ID)
	})
	if err != nil {
		s.discardUpload(ctx, url)
		return nil, err
	}

	s.activities.Record(ctx, actor.ID, model.ActivitySetCourtPrimaryPhoto, courtID, []uuid.UUID{photo.ID})

	return &dto.PhotoResponse{
		ID:           photo.ID,
		URL:          photo.URL,
		UploadedByID: photo.UploadedByID,
		DateAdded:    photo.DateAdded,
	}, nil
}

func (s *mediaService) GetCourtPhotos(ctx context.Context, courtID uuid.UUID) ([]*dto.PhotoResponse, error) {
	photos, err := s.mediaRepo.FindCourtPhotos(ctx, courtID)
	if err != nil {
		return nil, err
	}
	resp := make([]*dto.PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		resp = append(resp, &dto.PhotoResponse{
			ID:           photo.ID,
			URL:          photo.URL,
			UploadedByID: photo.UploadedByID,
			DateAdded:    photo.DateAdded,
		})
	}
	return resp, nil
}

// DeletePhoto soft-deletes: not-found is distinct from forbidden, and the
// actor must be the uploader, the court owner, or hold the override.
func (s *mediaService) DeletePhoto(ctx context.Context, actor Actor, courtID, photoID uuid.UUID) error {
	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return err
	}

	photo, err := s.mediaRepo.FindCourtPhoto(ctx, courtID, photoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("app.Error_DeletePhotoNotFound",
			fmt.Sprintf("tried to delete non-existing photo %s of court %s", photoID, courtID))
	}
	if err != nil {
		return err
	}

	if !actor.Is(photo.UploadedByID) && !CanModify(actor, court.OwnerID, PermissionDeletePhotoNotOwned) {
		return apperror.Forbidden("app.Error_NotAllowedToDeletePhoto",
			fmt.Sprintf("authorization failed when deleting photo %s", photoID))
	}

	err = s.txManager.RunAtomic(ctx, func(tx *gorm.DB) error {
		if err := s.mediaRepo.WithTx(tx).SoftDeletePhoto(ctx, photoID, time.Now().UTC()); err != nil {
			return err
		}
		// The court must never point at a deleted photo. The pointer is
		// re-read inside the unit so a repoint committed after the load
		// above is still honored.
		txCourts := s.courtRepo.WithTx(tx)
		current, err := txCourts.FindByID(ctx, courtID)
		if err != nil {
			return err
		}
		if current.PrimaryPhotoID != nil && *current.PrimaryPhotoID == photoID {
			return txCourts.ClearPrimaryPhoto(ctx, courtID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.activities.Record(ctx, actor.ID, model.ActivityDeleteCourtPhotos, courtID, []uuid.UUID{photoID})
	return nil
}

func (s *mediaService) AddVideo(ctx context.Context, actor Actor, courtID uuid.UUID, file *multipart.FileHeader) (*dto.VideoResponse, error) {
	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, court.OwnerID, PermissionAddVideoNotOwned) {
		return nil, apperror.Forbidden("app.Error_UploadCourtVideoNotAuthorized",
			fmt.Sprintf("authorization failed when uploading a video to court %s", courtID))
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	url, err := s.fileStorage.UploadVideo(ctx, f, "courts", file.Filename)
	if err != nil {
		return nil, err
	}

	video := &model.Video{
		URL:          url,
		UploadedByID: actor.ID,
		Size:         file.Size,
		ContentType:  file.Header.Get("Content-Type"),
	}

	err = s.txManager.RunAtomic(ctx, func(tx *gorm.DB) error {
		txMedia := s.mediaRepo.WithTx(tx)
		if err := txMedia.CreateVideo(ctx, video); err != nil {
			return err
		}
		return txMedia.LinkVideo(ctx, courtID, video.ID)
	})
	if err != nil {
		s.discardUpload(ctx, url)
		return nil, err
	}

	s.activities.Record(ctx, actor.ID, model.ActivityAddCourtVideos, courtID, []uuid.UUID{video.ID})

	return &dto.VideoResponse{
		ID:           video.ID,
		URL:          video.URL,
		UploadedByID: video.UploadedByID,
		Size:         video.Size,
		ContentType:  video.ContentType,
		DateAdded:    video.DateAdded,
	}, nil
}

func (s *mediaService) GetCourtVideos(ctx context.Context, courtID uuid.UUID) ([]*dto.VideoResponse, error) {
	if _, err := s.loadCourt(ctx, courtID); err != nil {
		return nil, err
	}

	videos, err := s.mediaRepo.FindCourtVideos(ctx, courtID)
	if err != nil {
		return nil, err
	}
	resp := make([]*dto.VideoResponse, 0, len(videos))
	for _, video := range videos {
		resp = append(resp, &dto.VideoResponse{
			ID:           video.ID,
			URL:          video.URL,
			UploadedByID: video.UploadedByID,
			Size:         video.Size,
			ContentType:  video.ContentType,
			DateAdded:    video.DateAdded,
		})
	}
	return resp, nil
}

func (s *mediaService) DeleteVideo(ctx context.Context, actor Actor, courtID, videoID uuid.UUID) error {
	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return err
	}

	video, err := s.mediaRepo.FindCourtVideo(ctx, courtID, videoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("app.Error_DeleteCourtVideoVideoNotFound",
			fmt.Sprintf("tried to delete non-existing video %s of court %s", videoID, courtID))
	}
	if err != nil {
		return err
	}

	if !actor.Is(video.UploadedByID) && !CanModify(actor, court.OwnerID, PermissionDeleteVideoNotOwned) {
		return apperror.Forbidden("app.Error_DeleteCourtVideoUnauthorized",
			fmt.Sprintf("authorization failed when deleting video %s", videoID))
	}

	err = s.txManager.RunAtomic(ctx, func(tx *gorm.DB) error {
		return s.mediaRepo.WithTx(tx).SoftDeleteVideo(ctx, videoID, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	s.activities.Record(ctx, actor.ID, model.ActivityDeleteCourtVideos, courtID, []uuid.UUID{videoID})
	return nil
}

func (s *mediaService) loadCourt(ctx context.Context, courtID uuid.UUID) (*model.Court, error) {
	court, err := s.courtRepo.FindByID(ctx, courtID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("app.Error_CourtNotFound",
			fmt.Sprintf("court %s does not exist", courtID))
	}
	if err != nil {
		return nil, err
	}
	return court, nil
}
