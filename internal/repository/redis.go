package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fixnear/internal/config"
	"fixnear/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository stores the session mirror in Redis, keyed by
// profile, for shared-terminal deployments where local files don't survive.
type RedisSessionRepository struct {
	client  *redis.Client
	profile string
	ttl     time.Duration
}

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisSessionRepository(client *redis.Client, profile string, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, profile: profile, ttl: ttl}
}

func (r *RedisSessionRepository) key() string {
	return fmt.Sprintf("fixnear:session:%s", r.profile)
}

func (r *RedisSessionRepository) Load(ctx context.Context) (*models.Session, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, r.key()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if !session.Valid() {
		return nil, nil
	}
	return &session, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, session *models.Session) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if session == nil {
		return r.Clear(ctx)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, r.key(), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session in redis: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) Clear(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, r.key()).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}
