package searchcache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIntegrationRedis(t *testing.T) *Redis {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping integration test: TEST_REDIS_ADDR not set")
	}
	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr, DialTimeout: time.Second})
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "booksearch-test-"+time.Now().Format("150405.000"), time.Minute)
}

func TestIntegration_RedisStore(t *testing.T) {
	store := setupIntegrationRedis(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, Key("dune", 1, 10))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, Key("dune", 1, 10), Page{Docs: duneDocs(), Total: 42}))

	page, ok, err := store.Get(ctx, Key("dune", 1, 10))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, page.Total)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "Dune", page.Docs[0]["title"])
}
