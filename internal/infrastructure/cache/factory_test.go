package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sid/billing-service/internal/infrastructure/config"
)

func TestIdempotencyStoreFactory_CreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("uses in-memory store when Redis is disabled", func(t *testing.T) {
		factory := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false}, WithLogger(zap.NewNop()))

		store, err := factory.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()

		_, ok := store.(*InMemoryIdempotencyStore)
		assert.True(t, ok)
	})

	t.Run("falls back to in-memory when Redis is unreachable", func(t *testing.T) {
		factory := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1})

		store, err := factory.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()

		_, ok := store.(*InMemoryIdempotencyStore)
		assert.True(t, ok)
	})

	t.Run("fails without fallback when Redis is unreachable", func(t *testing.T) {
		factory := NewIdempotencyStoreFactory(
			config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
			WithInMemoryFallback(false),
		)

		_, err := factory.CreateStore(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis required")
	})
}
