package service

import (
	"context"
	"testing"
	"time"

	"github.com/hooplab/courtside/internal/model"
)

func TestFollowerCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "owner")
	court := env.seedCourt(t, owner)

	count, err := env.aggregates.FollowerCount(ctx, court.ID)
	if err != nil {
		t.Fatalf("FollowerCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 followers, got %d", count)
	}

	for _, name := range []string{"fan1", "fan2", "fan3"} {
		fan := env.seedUser(t, name)
		if err := env.followingRepo.Create(ctx, court.ID, fan.ID); err != nil {
			t.Fatalf("failed to create following: %v", err)
		}
	}

	count, err = env.aggregates.FollowerCount(ctx, court.ID)
	if err != nil {
		t.Fatalf("FollowerCount failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 followers, got %d", count)
	}
}

func TestIsFollowedByAnonymous(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner")
	court := env.seedCourt(t, owner)

	followed, err := env.aggregates.IsFollowedBy(context.Background(), court.ID, AnonymousActor())
	if err != nil {
		t.Fatalf("IsFollowedBy failed: %v", err)
	}
	if followed {
		t.Fatal("anonymous actor must never appear as a follower")
	}
}

func TestMostRecentEligibleBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "owner")
	player := env.seedUser(t, "player")
	court := env.seedCourt(t, owner)
	actor := actorFor(player)

	now := time.Now()

	// None of these qualify: pending, still running, already reviewed.
	env.seedBooking(t, court, player, now.Add(-time.Hour), model.BookingStatusPending)
	env.seedBooking(t, court, player, now.Add(time.Hour), model.BookingStatusApproved)
	reviewed := env.seedBooking(t, court, player, now.Add(-3*time.Hour), model.BookingStatusApproved)
	if err := env.db.Model(reviewed).Update("has_reviewed", true).Error; err != nil {
		t.Fatalf("failed to flag booking as reviewed: %v", err)
	}

	booking, err := env.aggregates.MostRecentEligibleBooking(ctx, actor, court.ID)
	if err != nil {
		t.Fatalf("MostRecentEligibleBooking failed: %v", err)
	}
	if booking != nil {
		t.Fatalf("expected no eligible booking, got %s", booking.ID)
	}

	older := env.seedBooking(t, court, player, now.Add(-2*time.Hour), model.BookingStatusApproved)
	newest := env.seedBooking(t, court, player, now.Add(-30*time.Minute), model.BookingStatusApproved)
	_ = older

	booking, err = env.aggregates.MostRecentEligibleBooking(ctx, actor, court.ID)
	if err != nil {
		t.Fatalf("MostRecentEligibleBooking failed: %v", err)
	}
	if booking == nil {
		t.Fatal("expected an eligible booking")
	}
	if booking.ID != newest.ID {
		t.Fatalf("expected booking %s (latest end), got %s", newest.ID, booking.ID)
	}

	canReview, err := env.aggregates.CanReview(ctx, actor, court.ID)
	if err != nil {
		t.Fatalf("CanReview failed: %v", err)
	}
	if !canReview {
		t.Fatal("expected actor with an eligible booking to be able to review")
	}
}

func TestMostRecentEligibleBookingTieBreak(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "owner")
	player := env.seedUser(t, "player")
	court := env.seedCourt(t, owner)

	end := time.Now().Add(-time.Hour).Truncate(time.Second)
	first := env.seedBooking(t, court, player, end, model.BookingStatusApproved)
	env.seedBooking(t, court, player, end, model.BookingStatusApproved)

	booking, err := env.aggregates.MostRecentEligibleBooking(ctx, actorFor(player), court.ID)
	if err != nil {
		t.Fatalf("MostRecentEligibleBooking failed: %v", err)
	}
	if booking == nil {
		t.Fatal("expected an eligible booking")
	}
	// Equal end times resolve to the earliest-created booking.
	if booking.ID != first.ID {
		t.Fatalf("expected booking %s, got %s", first.ID, booking.ID)
	}
}

func TestMostRecentEligibleBookingAnonymous(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner")
	court := env.seedCourt(t, owner)

	booking, err := env.aggregates.MostRecentEligibleBooking(context.Background(), AnonymousActor(), court.ID)
	if err != nil {
		t.Fatalf("MostRecentEligibleBooking failed: %v", err)
	}
	if booking != nil {
		t.Fatal("anonymous actor must have no eligible booking")
	}

	canReview, err := env.aggregates.CanReview(context.Background(), AnonymousActor(), court.ID)
	if err != nil {
		t.Fatalf("CanReview failed: %v", err)
	}
	if canReview {
		t.Fatal("anonymous actor must not be able to review")
	}
}

func TestAverageRatingEmpty(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner")
	court := env.seedCourt(t, owner)

	rating, err := env.aggregates.AverageRating(context.Background(), court.ID)
	if err != nil {
		t.Fatalf("AverageRating failed: %v", err)
	}
	if rating != 0 {
		t.Fatalf("expected 0 rating with no reviews, got %f", rating)
	}
}
