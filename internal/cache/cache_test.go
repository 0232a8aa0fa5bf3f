package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	client, err := NewClient(context.Background(), url)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return New(client, "test:"+uuid.New().String()+":", time.Minute)
}

func TestCache_GetSetDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Levels []string `json:"levels"`
	}

	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", payload{Levels: []string{"Vision", "Goal"}}))

	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Vision", "Goal"}, got.Levels)

	require.NoError(t, c.Delete(ctx, "k"))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, uint64(1), c.Stats().Hits.Load())
	assert.Equal(t, uint64(2), c.Stats().Misses.Load())
	assert.Equal(t, uint64(1), c.Stats().Sets.Load())
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not-a-url://")
	assert.Error(t, err)
}
