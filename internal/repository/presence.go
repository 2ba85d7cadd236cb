package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func redisKeyPresence(userID string) string {
	return fmt.Sprintf("presence:%s", userID)
}

// PresenceRepository tracks which users currently hold a live connection.
// Markers expire on their own if a connection dies without deregistering.
type PresenceRepository interface {
	SetOnline(ctx context.Context, userID string, ttl time.Duration) error
	SetOffline(ctx context.Context, userID string) error
	GetOnline(ctx context.Context, userIDs []string) (map[string]bool, error)
}

type presenceRepository struct {
	client *redis.Client
}

func NewPresenceRepository(client *redis.Client) *presenceRepository {
	return &presenceRepository{client: client}
}

func (r *presenceRepository) SetOnline(ctx context.Context, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, redisKeyPresence(userID), "1", ttl).Err()
}

func (r *presenceRepository) SetOffline(ctx context.Context, userID string) error {
	return r.client.Del(ctx, redisKeyPresence(userID)).Err()
}

func (r *presenceRepository) GetOnline(
	ctx context.Context, userIDs []string,
) (map[string]bool, error) {
	if len(userIDs) == 0 {
		return map[string]bool{}, nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, redisKeyPresence(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	online := make(map[string]bool, len(userIDs))
	for i, v := range values {
		online[userIDs[i]] = v != nil
	}

	return online, nil
}
