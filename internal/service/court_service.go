package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/dto"
	"github.com/hooplab/courtside/internal/model"
	"github.com/hooplab/courtside/internal/repository"
	"github.com/hooplab/courtside/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CourtService interface {
	RegisterCourt(ctx context.Context, actor Actor, req dto.RegisterCourtRequest) (*dto.CourtDetailResponse, error)
	GetCourt(ctx context.Context, actor Actor, courtID uuid.UUID) (*dto.CourtDetailResponse, error)
	GetAllCourts(ctx context.Context, actor Actor) ([]*dto.CourtDetailResponse, error)
	FindCourts(ctx context.Context, actor Actor, query string) ([]*dto.CourtDetailResponse, error)
	UpdateCourt(ctx context.Context, actor Actor, courtID uuid.UUID, req dto.UpdateCourtRequest) (*dto.CourtDetailResponse, error)
	SetCourtStatus(ctx context.Context, actor Actor, courtID uuid.UUID, status model.CourtStatus) error
	Follow(ctx context.Context, actor Actor, courtID uuid.UUID) (*dto.FollowResult, error)
	Unfollow(ctx context.Context, actor Actor, courtID uuid.UUID) (*dto.FollowResult, error)
	GetCourtBookings(ctx context.Context, courtID uuid.UUID) ([]*model.Booking, error)
}

type courtService struct {
	courtRepo     repository.CourtRepository
	followingRepo repository.FollowingRepository
	bookingRepo   repository.BookingRepository
	aggregates    AggregateService
	activities    ActivityService
	search        SearchService
	redisClient   *redis.Client
	registerLimit time.Duration
}

func NewCourtService(
	courtRepo repository.CourtRepository,
	followingRepo repository.FollowingRepository,
	bookingRepo repository.BookingRepository,
	aggregates AggregateService,
	activities ActivityService,
	search SearchService,
	redisClient *redis.Client,
	registerLimit time.Duration,
) CourtService {
	return &courtService{
		courtRepo:     courtRepo,
		followingRepo: followingRepo,
		bookingRepo:   bookingRepo,
		aggregates:    aggregates,
		activities:    activities,
		search:        search,
		redisClient:   redisClient,
		registerLimit: registerLimit,
	}
}

func (s *courtService) RegisterCourt(ctx context.Context, actor Actor, req dto.RegisterCourtRequest) (*dto.CourtDetailResponse, error) {
	if actor.Anonymous {
		return nil, apperror.ErrUnauthorized
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, actor.ID, "court_register", s.registerLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		return nil, RateLimitedError(ctx, s.redisClient, actor.ID, "court_register")
	}

	court := &model.Court{
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		RatePerHour:   req.RatePerHour,
		OwnerID:       actor.ID,
		Status:        model.CourtStatusActive,
	}

	if err := s.courtRepo.Create(ctx, court); err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, actor.ID, "court_register")
		return nil, err
	}

	s.indexCourt(court)
	s.activities.Record(ctx, actor.ID, model.ActivityAddCourt, court.ID, nil)

	return s.buildDetailView(ctx, actor, court)
}

func (s *courtService) GetCourt(ctx context.Context, actor Actor, courtID uuid.UUID) (*dto.CourtDetailResponse, error) {
	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}
	return s.buildDetailView(ctx, actor, court)
}

func (s *courtService) GetAllCourts(ctx context.Context, actor Actor) ([]*dto.CourtDetailResponse, error) {
	courts, err := s.courtRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.CourtDetailResponse, 0, len(courts))
	for _, court := range courts {
		view, err := s.buildDetailView(ctx, actor, court)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// FindCourts queries the search index and falls back to a database scan when
// the index is unreachable.
func (s *courtService) FindCourts(ctx context.Context, actor Actor, query string) ([]*dto.CourtDetailResponse, error) {
	var courts []*model.Court

	ids, err := s.search.SearchCourts(query)
	if err != nil {
		courts, err = s.courtRepo.Search(ctx, query)
		if err != nil {
			return nil, err
		}
	} else {
		for _, id := range ids {
			court, err := s.courtRepo.FindByID(ctx, id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Index can lag behind the database.
				continue
			}
			if err != nil {
				return nil, err
			}
			courts = append(courts, court)
		}
	}

	views := make([]*dto.CourtDetailResponse, 0, len(courts))
	for _, court := range courts {
		view, err := s.buildDetailView(ctx, actor, court)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *courtService) UpdateCourt(ctx context.Context, actor Actor, courtID uuid.UUID, req dto.UpdateCourtRequest) (*dto.CourtDetailResponse, error) {
	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	if !CanModify(actor, court.OwnerID, PermissionUpdateCourtNotOwned) {
		return nil, apperror.Forbidden("app.Error_UpdateCourtNotAuthorized",
			fmt.Sprintf("authorization failed when attempting to update court %s", courtID))
	}

	court.Name = req.Name
	court.Description = req.Description
	court.Address = req.Address
	court.ContactNumber = req.ContactNumber
	court.RatePerHour = req.RatePerHour

	if err := s.courtRepo.Update(ctx, court); err != nil {
		return nil, err
	}

	s.indexCourt(court)
	s.activities.Record(ctx, actor.ID, model.ActivityUpdateCourt, court.ID, nil)

	return s.buildDetailView(ctx, actor, court)
}

func (s *courtService) SetCourtStatus(ctx context.Context, actor Actor, courtID uuid.UUID, status model.CourtStatus) error {
	court, err := s.loadCourt(ctx, courtID)
	if err != nil {
		return err
	}

	override := PermissionUpdateCourtNotOwned
	if status == model.CourtStatusDeleted {
		override = PermissionDeleteCourtNotOwned
	}
	if !CanModify(actor, court.OwnerID, override) {
		return apperror.Forbidden("app.Error_UpdateCourtNotAuthorized",
			fmt.Sprintf("authorization failed when attempting to set status of court %s", courtID))
	}

	if err := s.courtRepo.UpdateStatus(ctx, courtID, status); err != nil {
		return err
	}

	court.Status = status
	activityType := model.ActivityUpdateCourt
	if status == model.CourtStatusDeleted {
		activityType = model.ActivityDeleteCourt
		if err := s.search.DeleteCourt(court.ID.String()); err != nil {
			log.Printf("Failed to remove court %s from search index: %v", court.ID, err)
		}
	} else {
		s.indexCourt(court)
	}
	s.activities.Record(ctx, actor.ID, activityType, court.ID, nil)
	return nil
}

// Follow is idempotent: following an already-followed court succeeds without
// a second row, a count change, or an audit record.
func (s *courtService) Follow(ctx context.Context, actor Actor, courtID uuid.UUID) (*dto.FollowResult, error) {
	if actor.Anonymous {
		return nil, apperror.ErrUnauthorized
	}
	if _, err := s.loadCourt(ctx, courtID); err != nil {
		return nil, err
	}

	already, err := s.followingRepo.Exists(ctx, courtID, actor.ID)
	if err != nil {
		return nil, err
	}

	changed := false
	if !already {
		err := s.followingRepo.Create(ctx, courtID, actor.ID)
		switch {
		case err == nil:
			changed = true
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// Lost the race to a concurrent follow; treat as already
			// following.
			already = true
		default:
			return nil, err
		}
	}

	if changed {
		s.activities.Record(ctx, actor.ID, model.ActivityFollowCourt, courtID, nil)
	}

	count, err := s.aggregates.FollowerCount(ctx, courtID)
	if err != nil {
		return nil, err
	}

	return &dto.FollowResult{
		IsFollowing:      true,
		AlreadyFollowing: already,
		Changed:          changed,
		FollowerCount:    count,
	}, nil
}

func (s *courtService) Unfollow(ctx context.Context, actor Actor, courtID uuid.UUID) (*dto.FollowResult, error) {
	if actor.Anonymous {
		return nil, apperror.ErrUnauthorized
	}
	if _, err := s.loadCourt(ctx, courtID); err != nil {
		return nil, err
	}

	removed, err := s.followingRepo.Delete(ctx, courtID, actor.ID)
	if err != nil {
		return nil, err
	}

	if removed {
		s.activities.Record(ctx, actor.ID, model.ActivityUnfollowCourt, courtID, nil)
	}

	count, err := s.aggregates.FollowerCount(ctx, courtID)
	if err != nil {
		return nil, err
	}

	return &dto.FollowResult{
		IsFollowing:      false,
		AlreadyFollowing: false,
		Changed:          removed,
		FollowerCount:    count,
	}, nil
}

func (s *courtService) GetCourtBookings(ctx context.Context, courtID uuid.UUID) ([]*model.Booking, error) {
	if _, err := s.loadCourt(ctx, courtID); err != nil {
		return nil, err
	}
	return s.bookingRepo.FindByCourt(ctx, courtID)
}

func (s *courtService) loadCourt(ctx context.Context, courtID uuid.UUID) (*model.Court, error) {
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

// Search indexing is best-effort; lookups fall back to the database.
func (s *courtService) indexCourt(court *model.Court) {
	if err := s.search.IndexCourt(court); err != nil {
		log.Printf("Failed to index court %s: %v", court.ID, err)
	}
}

func (s *courtService) buildDetailView(ctx context.Context, actor Actor, court *model.Court) (*dto.CourtDetailResponse, error) {
	followerCount, err := s.aggregates.FollowerCount(ctx, court.ID)
	if err != nil {
		return nil, err
	}
	reviewCount, err := s.aggregates.ReviewCount(ctx, court.ID)
	if err != nil {
		return nil, err
	}
	isFollowed, err := s.aggregates.IsFollowedBy(ctx, court.ID, actor)
	if err != nil {
		return nil, err
	}
	canReview, err := s.aggregates.CanReview(ctx, actor, court.ID)
	if err != nil {
		return nil, err
	}

	view := &dto.CourtDetailResponse{
		ID:            court.ID,
		Name:          court.Name,
		Description:   court.Description,
		Address:       court.Address,
		ContactNumber: court.ContactNumber,
		RatePerHour:   court.RatePerHour,
		Status:        string(court.Status),
		Rating:        court.Rating,
		FollowerCount: followerCount,
		ReviewCount:   reviewCount,
		IsFollowed:    isFollowed,
		CanReview:     canReview,
		CreatedAt:     court.CreatedAt,
	}

	if court.PrimaryPhoto != nil && court.PrimaryPhoto.DateDeleted == nil {
		view.PrimaryPhoto = &dto.PhotoResponse{
			ID:           court.PrimaryPhoto.ID,
			URL:          court.PrimaryPhoto.URL,
			UploadedByID: court.PrimaryPhoto.UploadedByID,
			DateAdded:    court.PrimaryPhoto.DateAdded,
		}
	}
	if court.Owner != nil {
		view.Owner = &dto.OwnerInfo{
			ID:        court.Owner.ID,
			Username:  court.Owner.Username,
			AvatarURL: court.Owner.AvatarURL,
		}
	}

	return view, nil
}
