package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tdsa-academy/academy-service/internal/repositories"
)

// RedisSequence allocates sequence values with INCR, which is atomic across
// every service instance sharing the Redis server.
type RedisSequence struct {
	client *redis.Client
	prefix string
}

var _ repositories.SequenceRepository = (*RedisSequence)(nil)

func NewRedisSequence(client *redis.Client) *RedisSequence {
	return &RedisSequence{client: client, prefix: "sequence:"}
}

func (s *RedisSequence) Next(ctx context.Context, name string, seed func(ctx context.Context) (int64, error)) (int64, error) {
	key := s.prefix + name

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		start, err := seed(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to seed sequence %s: %w", name, err)
		}
		// SETNX keeps whichever instance seeded first
		if err := s.client.SetNX(ctx, key, start, 0).Err(); err != nil {
			return 0, err
		}
	}

	return s.client.Incr(ctx, key).Result()
}
