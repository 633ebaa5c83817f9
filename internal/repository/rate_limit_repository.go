package repository

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRepository throttles code-request issuance per contact. It only
// gates issuance: verification attempts are deliberately not limited here.
type RateLimitRepository interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type redisRateLimit struct {
	client *redis.Client
}

func NewRedisRateLimit(client *redis.Client) RateLimitRepository {
	return &redisRateLimit{client: client}
}

func (r *redisRateLimit) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	// Hash the key so contact identifiers never appear in redis
	hashed := fmt.Sprintf("rl:%x", sha256.Sum256([]byte(key)))

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	count, err := r.client.Incr(ctx, hashed).Result()
	if err != nil {
		// Fail open: a broken limiter should not block logins
		return true, nil
	}
	if count == 1 {
		r.client.Expire(ctx, hashed, window)
	}

	return count <= int64(limit), nil
}
