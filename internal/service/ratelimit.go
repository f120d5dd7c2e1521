package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
	return rdb.TTL(ctx, key).Result()
}

// RateLimitedError builds the rejection for an exhausted cooldown, carrying
// the remaining wait from GetRateLimitTTL in the diagnostic detail. A nil or
// unreadable TTL degrades to a plain rejection.
func RateLimitedError(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	ttl, err := GetRateLimitTTL(ctx, rdb, userID, action)
	if err != nil || ttl < 0 {
		ttl = 0
	}
	return apperror.New(http.StatusTooManyRequests, "app.Error_TooManyRequests",
		fmt.Errorf("%w: wait %.0f seconds before repeating %s", apperror.ErrRateLimited, ttl.Seconds(), action))
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
	_, err := rdb.Del(ctx, key).Result()
	return err
}
