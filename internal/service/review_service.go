package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/dto"
	"github.com/hooplab/courtside/internal/model"
	"github.com/hooplab/courtside/internal/repository"
	"github.com/hooplab/courtside/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ReviewService interface {
	GetReviews(ctx context.Context, courtID uuid.UUID) ([]*dto.ReviewResponse, error)
	SubmitReview(ctx context.Context, actor Actor, courtID uuid.UUID, req dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error)
	// GetReviewModal returns the data to pre-fill the review dialog: the
	// most recently ended eligible booking plus the court detail.
	GetReviewModal(ctx context.Context, actor Actor, courtID uuid.UUID) (*dto.ReviewModalResponse, error)
}

type reviewService struct {
	courtRepo   repository.CourtRepository
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
	txManager   repository.TxManager
	aggregates  AggregateService
	activities  ActivityService
	courts      CourtService
	redisClient *redis.Client
	reviewLimit time.Duration
	sanitizer   *bluemonday.Policy
}

func NewReviewService(
	courtRepo repository.CourtRepository,
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	txManager repository.TxManager,
	aggregates AggregateService,
	activities ActivityService,
	courts CourtService,
	redisClient *redis.Client,
	reviewLimit time.Duration,
) ReviewService {
	return &reviewService{
		courtRepo:   courtRepo,
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		aggregates:  aggregates,
		activities:  activities,
		courts:      courts,
		redisClient: redisClient,
		reviewLimit: reviewLimit,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *reviewService) GetReviews(ctx context.Context, courtID uuid.UUID) ([]*dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		item := &dto.ReviewResponse{
			ID:        review.ID,
			CourtID:   review.CourtID,
			BookingID: review.BookingID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		}
		if review.ReviewedBy != nil {
			item.ReviewedBy = &dto.OwnerInfo{
				ID:        review.ReviewedBy.ID,
				Username:  review.ReviewedBy.Username,
				AvatarURL: review.ReviewedBy.AvatarURL,
			}
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// SubmitReview marks the booking reviewed, inserts the review and recomputes
// the court's cached rating in one atomic unit. If any step fails the
// booking stays eligible for another attempt.
func (s *reviewService) SubmitReview(ctx context.Context, actor Actor, courtID uuid.UUID, req dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error) {
	if actor.Anonymous {
		return nil, apperror.ErrUnauthorized
	}

	court, err := s.courtRepo.FindByID(ctx, courtID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("app.Error_CourtNotFound",
			fmt.Sprintf("tried to review non-existing court %s", courtID))
	}
	if err != nil {
		return nil, err
	}

	if court.OwnerID == actor.ID {
		return nil, apperror.InvalidOperation("app.Error_CantRateOwnCourt",
			fmt.Sprintf("tried to rate own court. Court ID: %s, User ID: %s", court.ID, actor.ID))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, actor.ID, "review", s.reviewLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		return nil, RateLimitedError(ctx, s.redisClient, actor.ID, "review")
	}

	review := &model.CourtReview{
		CourtID:      courtID,
		ReviewedByID: actor.ID,
		BookingID:    bookingID,
		Rating:       req.Rating,
		Comment:      s.sanitizer.Sanitize(req.Comment),
	}

	var newRating float64
	err = s.txManager.RunAtomic(ctx, func(tx *gorm.DB) error {
		txBookings := s.bookingRepo.WithTx(tx)
		txReviews := s.reviewRepo.WithTx(tx)
		txCourts := s.courtRepo.WithTx(tx)

		booking, err := txBookings.FindByID(ctx, bookingID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("app.Error_BookingNotFound",
				fmt.Sprintf("tried to review non-existing booking %s", bookingID))
		}
		if err != nil {
			return err
		}

		if booking.CourtID != courtID || booking.BookedByID != actor.ID {
			return apperror.InvalidOperation("app.Error_NoEligibleBooking",
				fmt.Sprintf("booking %s does not belong to user %s on court %s", bookingID, actor.ID, courtID))
		}
		if booking.Status != model.BookingStatusApproved || !booking.End.Before(time.Now().UTC()) {
			return apperror.InvalidOperation("app.Error_NoEligibleBooking",
				fmt.Sprintf("booking %s is not approved and elapsed", bookingID))
		}
		if booking.HasReviewed {
			return apperror.InvalidOperation("app.Error_BookingAlreadyReviewed",
				fmt.Sprintf("booking %s was already reviewed", bookingID))
		}

		if err := txBookings.MarkReviewed(ctx, bookingID); err != nil {
			return err
		}
		if err := txReviews.Create(ctx, review); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Concurrent submit against the same booking; the unique
				// index on booking_id is the arbiter.
				return apperror.InvalidOperation("app.Error_BookingAlreadyReviewed",
					fmt.Sprintf("booking %s was already reviewed", bookingID))
			}
			return err
		}

		newRating, err = txReviews.AverageRating(ctx, courtID)
		if err != nil {
			return err
		}
		return txCourts.UpdateRating(ctx, courtID, newRating)
	})
	if err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, actor.ID, "review")
		return nil, err
	}

	s.activities.Record(ctx, actor.ID, model.ActivityReviewCourt, courtID, map[string]any{
		"review_id": review.ID,
		"rating":    review.Rating,
	})

	return &dto.SubmitReviewResponse{
		Review: dto.ReviewResponse{
			ID:        review.ID,
			CourtID:   review.CourtID,
			BookingID: review.BookingID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		},
		CourtRating: newRating,
	}, nil
}

func (s *reviewService) GetReviewModal(ctx context.Context, actor Actor, courtID uuid.UUID) (*dto.ReviewModalResponse, error) {
	booking, err := s.aggregates.MostRecentEligibleBooking(ctx, actor, courtID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperror.NotFound("app.Error_NoEligibleBooking",
			fmt.Sprintf("user %v has no eligible booking for court %s", actor.ID, courtID))
	}

	courtView, err := s.courts.GetCourt(ctx, actor, courtID)
	if err != nil {
		return nil, err
	}

	return &dto.ReviewModalResponse{
		BookingID: booking.ID,
		Start:     booking.Start,
		End:       booking.End,
		Court:     *courtView,
	}, nil
}
