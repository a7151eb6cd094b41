package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quranstudy/models"

	"github.com/redis/go-redis/v9"
)

// QuizCache holds each user's quiz list for a bounded time.
type QuizCache interface {
	GetUserQuizzes(ctx context.Context, userID string) ([]models.Quiz, bool, error)
	SetUserQuizzes(ctx context.Context, userID string, quizzes []models.Quiz) error
	Invalidate(ctx context.Context, userIDs ...string) error
}

// RedisCache stores JSON values under namespaced keys with a fixed TTL.
type RedisCache struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(id string) string {
	return c.prefix + ":" + id
}

// getJSON reports false with a nil error on a miss.
func (c *RedisCache) getJSON(ctx context.Context, id string, dst interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s from redis: %w", c.key(id), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// a stale shape is a miss; the next Set overwrites it
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, id string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s in redis: %w", c.key(id), err)
	}
	return nil
}

func (c *RedisCache) delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.key(id))
	}
	return c.redis.Del(ctx, keys...).Err()
}

type RedisQuizCache struct {
	*RedisCache
}

func NewRedisQuizCache(client *redis.Client, ttl time.Duration) *RedisQuizCache {
	return &RedisQuizCache{RedisCache: NewRedisCache(client, "quizzes:user", ttl)}
}

func (c *RedisQuizCache) GetUserQuizzes(ctx context.Context, userID string) ([]models.Quiz, bool, error) {
	var quizzes []models.Quiz
	ok, err := c.getJSON(ctx, userID, &quizzes)
	if !ok {
		return nil, false, err
	}
	return quizzes, true, nil
}

func (c *RedisQuizCache) SetUserQuizzes(ctx context.Context, userID string, quizzes []models.Quiz) error {
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}
	return c.setJSON(ctx, userID, quizzes)
}

func (c *RedisQuizCache) Invalidate(ctx context.Context, userIDs ...string) error {
	return c.delete(ctx, userIDs...)
}
