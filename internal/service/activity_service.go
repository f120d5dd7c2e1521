package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/dto"
	"github.com/hooplab/courtside/internal/model"
	"github.com/hooplab/courtside/internal/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// ActivityService is the audit trail: one record per logical user action,
// written strictly after the primary mutation has committed. Failures here
// are logged and swallowed; they never undo a committed operation.
type ActivityService interface {
	// Record queues an activity record fire-and-forget. payload, when
	// non-nil, is marshalled to JSON (e.g. the affected media ids).
	Record(ctx context.Context, actorID uuid.UUID, activityType model.ActivityType, courtID uuid.UUID, payload any)
	GetCourtActivities(ctx context.Context, courtID uuid.UUID) ([]*model.Activity, error)
	// GetCourtFeed resolves actor ids to basic user info for display.
	GetCourtFeed(ctx context.Context, courtID uuid.UUID) ([]*dto.ActivityResponse, error)
	// GetActorFeed lists one user's actions across all courts, newest first.
	GetActorFeed(ctx context.Context, actorID uuid.UUID) ([]*dto.ActivityResponse, error)
	StartWorker(ctx context.Context)
}

const ActivityQueueKey = "activity_queue"

type activityTask struct {
	ActorID string          `json:"actor_id"`
	Type    int             `json:"type"`
	CourtID string          `json:"court_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type activityService struct {
	redisClient  *redis.Client
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
}

func NewActivityService(redisClient *redis.Client, activityRepo repository.ActivityRepository, userRepo repository.UserRepository) ActivityService {
	return &activityService{
		redisClient:  redisClient,
		activityRepo: activityRepo,
		userRepo:     userRepo,
	}
}

func (s *activityService) Record(ctx context.Context, actorID uuid.UUID, activityType model.ActivityType, courtID uuid.UUID, payload any) {
	var raw json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to marshal activity payload: %v", err)
		} else {
			raw = bytes
		}
	}

	task := activityTask{
		ActorID: actorID.String(),
		Type:    int(activityType),
		CourtID: courtID.String(),
		Payload: raw,
	}

	if s.redisClient != nil {
		bytes, err := json.Marshal(task)
		if err == nil {
			if err := s.redisClient.RPush(ctx, ActivityQueueKey, bytes).Err(); err == nil {
				return
			} else {
				log.Printf("Failed to queue activity, writing directly: %v", err)
			}
		}
	}

	// Queue unavailable: write directly, still best-effort.
	s.persist(ctx, task)
}

func (s *activityService) persist(ctx context.Context, task activityTask) {
	actorID, err := uuid.Parse(task.ActorID)
	if err != nil {
		log.Printf("Invalid actor id in activity task: %v", err)
		return
	}
	courtID, err := uuid.Parse(task.CourtID)
	if err != nil {
		log.Printf("Invalid court id in activity task: %v", err)
		return
	}

	activity := &model.Activity{
		ActorID: actorID,
		Type:    model.ActivityType(task.Type),
		CourtID: courtID,
	}
	if len(task.Payload) > 0 {
		activity.Payload = datatypes.JSON(task.Payload)
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		log.Printf("Failed to persist activity %d for court %s: %v", task.Type, task.CourtID, err)
	}
}

func (s *activityService) GetCourtActivities(ctx context.Context, courtID uuid.UUID) ([]*model.Activity, error) {
	return s.activityRepo.FindByCourt(ctx, courtID)
}

func (s *activityService) GetCourtFeed(ctx context.Context, courtID uuid.UUID) ([]*dto.ActivityResponse, error) {
	activities, err := s.activityRepo.FindByCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}
	return s.buildFeed(ctx, activities), nil
}

func (s *activityService) GetActorFeed(ctx context.Context, actorID uuid.UUID) ([]*dto.ActivityResponse, error) {
	activities, err := s.activityRepo.FindByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.buildFeed(ctx, activities), nil
}

func (s *activityService) buildFeed(ctx context.Context, activities []*model.Activity) []*dto.ActivityResponse {
	actors := make(map[uuid.UUID]*dto.OwnerInfo)
	feed := make([]*dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		actor, seen := actors[activity.ActorID]
		if !seen {
			user, err := s.userRepo.FindByID(ctx, activity.ActorID)
			if err == nil {
				actor = &dto.OwnerInfo{
					ID:        user.ID,
					Username:  user.Username,
					AvatarURL: user.AvatarURL,
				}
			}
			// Unknown actors stay nil; the entry is still shown.
			actors[activity.ActorID] = actor
		}

		feed = append(feed, &dto.ActivityResponse{
			ID:        activity.ID,
			Type:      int(activity.Type),
			CourtID:   activity.CourtID,
			Actor:     actor,
			Payload:   json.RawMessage(activity.Payload),
			CreatedAt: activity.CreatedAt,
		})
	}
	return feed
}

// StartWorker drains the activity queue. Run it in its own goroutine; it
// returns when the context is cancelled.
func (s *activityService) StartWorker(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	log.Println("Activity worker started...")
	for {
		res, err := s.redisClient.BLPop(ctx, 0, ActivityQueueKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Redis BLPOP error: %v, retrying in 1s...", err)
			time.Sleep(1 * time.Second)
			continue
		}

		// res[0] is key, res[1] is value
		if len(res) < 2 {
			continue
		}

		var task activityTask
		if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
			log.Printf("Invalid activity task json: %v", err)
			continue
		}

		s.persist(ctx, task)
	}
}
