package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
)

func TestActivityRecordWithoutQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	actor := env.seedUser(t, "actor")
	owner := env.seedUser(t, "owner")
	court := env.seedCourt(t, owner)

	photoIDs := []uuid.UUID{uuid.New(), uuid.New()}
	env.activities.Record(ctx, actor.ID, model.ActivityAddCourtPhotos, court.ID, photoIDs)

	activities, err := env.activities.GetCourtActivities(ctx, court.ID)
	if err != nil {
		t.Fatalf("GetCourtActivities failed: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(activities))
	}
	activity := activities[0]
	if activity.Type != model.ActivityAddCourtPhotos {
		t.Fatalf("expected type %d, got %d", model.ActivityAddCourtPhotos, activity.Type)
	}
	if activity.ActorID != actor.ID {
		t.Fatalf("expected actor %s, got %s", actor.ID, activity.ActorID)
	}

	var decoded []uuid.UUID
	if err := json.Unmarshal(activity.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != photoIDs[0] {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}

func TestActivityFeedResolvesActors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	actor := env.seedUser(t, "actor")
	owner := env.seedUser(t, "owner")
	court := env.seedCourt(t, owner)

	env.activities.Record(ctx, actor.ID, model.ActivityFollowCourt, court.ID, nil)
	// An actor the user store no longer knows still produces an entry.
	env.activities.Record(ctx, uuid.New(), model.ActivityUnfollowCourt, court.ID, nil)

	feed, err := env.activities.GetCourtFeed(ctx, court.ID)
	if err != nil {
		t.Fatalf("GetCourtFeed failed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 feed entries, got %d", len(feed))
	}

	var known, unknown int
	for _, entry := range feed {
		if entry.Actor != nil {
			known++
			if entry.Actor.Username != "actor" {
				t.Fatalf("expected resolved username, got %q", entry.Actor.Username)
			}
		} else {
			unknown++
		}
	}
	if known != 1 || unknown != 1 {
		t.Fatalf("expected 1 resolved and 1 unresolved actor, got %d/%d", known, unknown)
	}
}

func TestActorFeedSpansCourts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roamer := env.seedUser(t, "roamer")
	owner := env.seedUser(t, "owner")
	courtA := env.seedCourt(t, owner)
	courtB := env.seedCourt(t, owner)

	env.activities.Record(ctx, roamer.ID, model.ActivityFollowCourt, courtA.ID, nil)
	env.activities.Record(ctx, roamer.ID, model.ActivityFollowCourt, courtB.ID, nil)
	// Another user's action stays out of the roamer's feed.
	env.activities.Record(ctx, owner.ID, model.ActivityUpdateCourt, courtA.ID, nil)

	feed, err := env.activities.GetActorFeed(ctx, roamer.ID)
	if err != nil {
		t.Fatalf("GetActorFeed failed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 feed entries, got %d", len(feed))
	}
	courts := map[uuid.UUID]bool{}
	for _, entry := range feed {
		if entry.Actor == nil || entry.Actor.Username != "roamer" {
			t.Fatalf("expected every entry to resolve the roamer, got %+v", entry.Actor)
		}
		courts[entry.CourtID] = true
	}
	if !courts[courtA.ID] || !courts[courtB.ID] {
		t.Fatalf("expected the feed to span both courts, got %v", courts)
	}
}

func TestActivityRecordWithoutPayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	actor := env.seedUser(t, "actor")
	owner := env.seedUser(t, "owner")
	court := env.seedCourt(t, owner)

	env.activities.Record(ctx, actor.ID, model.ActivityFollowCourt, court.ID, nil)

	activities, err := env.activities.GetCourtActivities(ctx, court.ID)
	if err != nil {
		t.Fatalf("GetCourtActivities failed: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(activities))
	}
	if len(activities[0].Payload) != 0 {
		t.Fatalf("expected empty payload, got %s", activities[0].Payload)
	}
}
