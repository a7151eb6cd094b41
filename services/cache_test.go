package services

import (
	"context"
	"testing"
	"time"

	"quranstudy/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisQuizCacheRoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewRedisQuizCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.GetUserQuizzes(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	quizzes := []models.Quiz{{ID: "q1", Title: "Juz Amma Quiz", CreatedBy: "alice"}}
	require.NoError(t, cache.SetUserQuizzes(ctx, "alice", quizzes))

	got, ok, err := cache.GetUserQuizzes(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "Juz Amma Quiz", got[0].Title)

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.GetUserQuizzes(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisQuizCacheEmptyListIsAHit(t *testing.T) {
	_, client := newTestRedis(t)
	cache := NewRedisQuizCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetUserQuizzes(ctx, "alice", nil))
	got, ok, err := cache.GetUserQuizzes(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedisQuizCacheInvalidate(t *testing.T) {
	_, client := newTestRedis(t)
	cache := NewRedisQuizCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetUserQuizzes(ctx, "alice", []models.Quiz{{ID: "q1"}}))
	require.NoError(t, cache.SetUserQuizzes(ctx, "bob", []models.Quiz{{ID: "q2"}}))
	require.NoError(t, cache.Invalidate(ctx, "alice", "bob"))
	require.NoError(t, cache.Invalidate(ctx))

	_, ok, _ := cache.GetUserQuizzes(ctx, "alice")
	assert.False(t, ok)
	_, ok, _ = cache.GetUserQuizzes(ctx, "bob")
	assert.False(t, ok)
}
