package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizforge/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet("quizforge:test:key:1").SetVal("cached-value")

		val, err := cache.Get(ctx, "quizforge:test:key:1")
		require.NoError(t, err)
		assert.Equal(t, "cached-value", val)
	})

	t.Run("miss translates to ErrCacheMiss", func(t *testing.T) {
		mock.ExpectGet("quizforge:test:key:absent").RedisNil()

		_, err := cache.Get(ctx, "quizforge:test:key:absent")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		mock.ExpectGet("quizforge:test:key:broken").SetErr(errors.New("connection reset"))

		_, err := cache.Get(ctx, "quizforge:test:key:broken")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_SetAndDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)
	ctx := context.Background()

	mock.ExpectSet("quizforge:test:key:1", "value", time.Minute).SetVal("OK")
	require.NoError(t, cache.Set(ctx, "quizforge:test:key:1", "value", time.Minute))

	mock.ExpectDel("quizforge:test:key:1").SetVal(1)
	require.NoError(t, cache.Delete(ctx, "quizforge:test:key:1"))

	require.NoError(t, mock.ExpectationsWereMet())
}
