package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
	"github.com/hooplab/courtside/internal/repository"
	"gorm.io/gorm"
)

// AggregateService derives read-time values from raw rows. Nothing here is
// persisted; the only cached aggregate in the system is Court.Rating, which
// the review transaction keeps in sync.
type AggregateService interface {
	FollowerCount(ctx context.Context, courtID uuid.UUID) (int64, error)
	IsFollowedBy(ctx context.Context, courtID uuid.UUID, actor Actor) (bool, error)
	ReviewCount(ctx context.Context, courtID uuid.UUID) (int64, error)
	AverageRating(ctx context.Context, courtID uuid.UUID) (float64, error)
	// MostRecentEligibleBooking returns the latest-ended booking that makes
	// the actor eligible to review the court, or nil when there is none.
	MostRecentEligibleBooking(ctx context.Context, actor Actor, courtID uuid.UUID) (*model.Booking, error)
	CanReview(ctx context.Context, actor Actor, courtID uuid.UUID) (bool, error)
}

type aggregateService struct {
	followingRepo repository.FollowingRepository
	reviewRepo    repository.ReviewRepository
	bookingRepo   repository.BookingRepository
}

func NewAggregateService(
	followingRepo repository.FollowingRepository,
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
) AggregateService {
	return &aggregateService{
		followingRepo: followingRepo,
		reviewRepo:    reviewRepo,
		bookingRepo:   bookingRepo,
	}
}

func (s *aggregateService) FollowerCount(ctx context.Context, courtID uuid.UUID) (int64, error) {
	return s.followingRepo.CountByCourt(ctx, courtID)
}

func (s *aggregateService) IsFollowedBy(ctx context.Context, courtID uuid.UUID, actor Actor) (bool, error) {
	if actor.Anonymous {
		return false, nil
	}
	return s.followingRepo.Exists(ctx, courtID, actor.ID)
}

func (s *aggregateService) ReviewCount(ctx context.Context, courtID uuid.UUID) (int64, error) {
	return s.reviewRepo.CountByCourt(ctx, courtID)
}

func (s *aggregateService) AverageRating(ctx context.Context, courtID uuid.UUID) (float64, error) {
	return s.reviewRepo.AverageRating(ctx, courtID)
}

func (s *aggregateService) MostRecentEligibleBooking(ctx context.Context, actor Actor, courtID uuid.UUID) (*model.Booking, error) {
	if actor.Anonymous {
		return nil, nil
	}
	booking, err := s.bookingRepo.FindMostRecentEligible(ctx, actor.ID, courtID, time.Now().UTC())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *aggregateService) CanReview(ctx context.Context, actor Actor, courtID uuid.UUID) (bool, error) {
	booking, err := s.MostRecentEligibleBooking(ctx, actor, courtID)
	if err != nil {
		return false, err
	}
	return booking != nil, nil
}
