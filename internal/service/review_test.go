package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/dto"
	"github.com/hooplab/courtside/internal/model"
	"github.com/hooplab/courtside/internal/repository"
	"github.com/hooplab/courtside/pkg/apperror"
	"gorm.io/gorm"
)

func TestSubmitReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviewService()

	owner := env.seedUser(t, "owner")
	player := env.seedUser(t, "player")
	court := env.seedCourt(t, owner)
	booking := env.seedBooking(t, court, player, time.Now().Add(-time.Hour), model.BookingStatusApproved)

	resp, err := svc.SubmitReview(ctx, actorFor(player), court.ID, dto.SubmitReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    4,
		Comment:   "Great <script>alert(1)</script> hoops",
	})
	if err != nil {
		t.Fatalf("SubmitReview failed: %v", err)
	}
	if resp.Review.Rating != 4 {
		t.Fatalf("expected rating 4, got %d", resp.Review.Rating)
	}
	if strings.Contains(resp.Review.Comment, "<script>") {
		t.Fatalf("comment was not sanitized: %q", resp.Review.Comment)
	}
	if resp.CourtRating != 4 {
		t.Fatalf("expected court rating 4, got %f", resp.CourtRating)
	}

	var storedBooking model.Booking
	if err := env.db.First(&storedBooking, "id = ?", booking.ID).Error; err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if !storedBooking.HasReviewed {
		t.Fatal("booking must be flagged as reviewed")
	}

	var storedCourt model.Court
	if err := env.db.First(&storedCourt, "id = ?", court.ID).Error; err != nil {
		t.Fatalf("failed to reload court: %v", err)
	}
	if storedCourt.Rating != 4 {
		t.Fatalf("expected cached court rating 4, got %f", storedCourt.Rating)
	}

	if got := env.activityCount(t, court.ID, model.ActivityReviewCourt); got != 1 {
		t.Fatalf("expected 1 review activity, got %d", got)
	}
}

func TestSubmitReviewOwnCourt(t *testing.T) {
	env := newTestEnv(t)
	svc := env.reviewService()

	owner := env.seedUser(t, "owner")
	court := env.seedCourt(t, owner)
	booking := env.seedBooking(t, court, owner, time.Now().Add(-time.Hour), model.BookingStatusApproved)

	_, err := svc.SubmitReview(context.Background(), actorFor(owner), court.ID, dto.SubmitReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    5,
	})
	if !errors.Is(err, apperror.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if key := apperror.MessageKey(err); key != "app.Error_CantRateOwnCourt" {
		t.Fatalf("expected own-court message key, got %q", key)
	}
}

func TestSubmitReviewIneligibleBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviewService()

	owner := env.seedUser(t, "owner")
	player := env.seedUser(t, "player")
	other := env.seedUser(t, "other")
	court := env.seedCourt(t, owner)

	running := env.seedBooking(t, court, player, time.Now().Add(time.Hour), model.BookingStatusApproved)
	pending := env.seedBooking(t, court, player, time.Now().Add(-time.Hour), model.BookingStatusPending)
	foreign := env.seedBooking(t, court, other, time.Now().Add(-time.Hour), model.BookingStatusApproved)

	for name, bookingID := range map[string]uuid.UUID{
		"not yet ended":       running.ID,
		"not approved":        pending.ID,
		"someone else booked": foreign.ID,
	} {
		_, err := svc.SubmitReview(ctx, actorFor(player), court.ID, dto.SubmitReviewRequest{
			BookingID: bookingID.String(),
			Rating:    3,
		})
		if !errors.Is(err, apperror.ErrInvalidOperation) {
			t.Fatalf("%s: expected ErrInvalidOperation, got %v", name, err)
		}
		if key := apperror.MessageKey(err); key != "app.Error_NoEligibleBooking" {
			t.Fatalf("%s: expected no-eligible-booking key, got %q", name, key)
		}
	}

	_, err := svc.SubmitReview(ctx, actorFor(player), court.ID, dto.SubmitReviewRequest{
		BookingID: uuid.New().String(),
		Rating:    3,
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown booking: expected ErrNotFound, got %v", err)
	}
}

func TestSubmitReviewDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviewService()

	owner := env.seedUser(t, "owner")
	player := env.seedUser(t, "player")
	court := env.seedCourt(t, owner)
	booking := env.seedBooking(t, court, player, time.Now().Add(-time.Hour), model.BookingStatusApproved)

	if _, err := svc.SubmitReview(ctx, actorFor(player), court.ID, dto.SubmitReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    5,
	}); err != nil {
		t.Fatalf("first SubmitReview failed: %v", err)
	}

	_, err := svc.SubmitReview(ctx, actorFor(player), court.ID, dto.SubmitReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    1,
	})
	if !errors.Is(err, apperror.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if key := apperror.MessageKey(err); key != "app.Error_BookingAlreadyReviewed" {
		t.Fatalf("expected already-reviewed key, got %q", key)
	}

	count, err := env.reviewRepo.CountByCourt(ctx, court.ID)
	if err != nil {
		t.Fatalf("CountByCourt failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 review, got %d", count)
	}

	var storedCourt model.Court
	if err := env.db.First(&storedCourt, "id = ?", court.ID).Error; err != nil {
		t.Fatalf("failed to reload court: %v", err)
	}
	if storedCourt.Rating != 5 {
		t.Fatalf("duplicate submit must not change the cached rating, got %f", storedCourt.Rating)
	}
}

// failingCourtRepo fails the rating write so the review transaction aborts.
type failingCourtRepo struct {
	repository.CourtRepository
}

func (r *failingCourtRepo) UpdateRating(ctx context.Context, courtID uuid.UUID, rating float64) error {
	return fmt.Errorf("forced rating failure")
}

func (r *failingCourtRepo) WithTx(tx *gorm.DB) repository.CourtRepository {
	return &failingCourtRepo{CourtRepository: r.CourtRepository.WithTx(tx)}
}

func TestSubmitReviewRollsBackOnRatingFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	courtRepo := &failingCourtRepo{CourtRepository: env.courtRepo}
	svc := NewReviewService(courtRepo, env.reviewRepo, env.bookingRepo, env.txManager,
		env.aggregates, env.activities, env.courtService(), nil, time.Minute)

	owner := env.seedUser(t, "owner")
	player := env.seedUser(t, "player")
	court := env.seedCourt(t, owner)
	booking := env.seedBooking(t, court, player, time.Now().Add(-time.Hour), model.BookingStatusApproved)

	_, err := svc.SubmitReview(ctx, actorFor(player), court.ID, dto.SubmitReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    5,
	})
	if err == nil {
		t.Fatal("expected SubmitReview to fail")
	}

	count, err := env.reviewRepo.CountByCourt(ctx, court.ID)
	if err != nil {
		t.Fatalf("CountByCourt failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("review insert must roll back, found %d reviews", count)
	}

	var storedBooking model.Booking
	if err := env.db.First(&storedBooking, "id = ?", booking.ID).Error; err != nil {
		t.Fatalf("failed to reload booking: %v", err)
	}
	if storedBooking.HasReviewed {
		t.Fatal("booking must stay eligible after a failed submit")
	}

	// The booking is still usable, so a retry succeeds.
	okSvc := env.reviewService()
	if _, err := okSvc.SubmitReview(ctx, actorFor(player), court.ID, dto.SubmitReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    5,
	}); err != nil {
		t.Fatalf("retry after rollback failed: %v", err)
	}
}

func TestGetReviewModal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviewService()

	owner := env.seedUser(t, "owner")
	player := env.seedUser(t, "player")
	court := env.seedCourt(t, owner)

	_, err := svc.GetReviewModal(ctx, actorFor(player), court.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound with no eligible booking, got %v", err)
	}

	booking := env.seedBooking(t, court, player, time.Now().Add(-time.Hour), model.BookingStatusApproved)

	modal, err := svc.GetReviewModal(ctx, actorFor(player), court.ID)
	if err != nil {
		t.Fatalf("GetReviewModal failed: %v", err)
	}
	if modal.BookingID != booking.ID {
		t.Fatalf("expected booking %s in modal, got %s", booking.ID, modal.BookingID)
	}
	if modal.Court.ID != court.ID {
		t.Fatalf("expected court %s in modal, got %s", court.ID, modal.Court.ID)
	}
}
