package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetExpire(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_DeletePrefix(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Set(ctx, "policies:a", []byte("1"), time.Minute)
	m.Set(ctx, "policies:b", []byte("2"), time.Minute)
	m.Set(ctx, "providers:a", []byte("3"), time.Minute)

	require.NoError(t, Invalidate(ctx, m, "policies"))
	assert.Equal(t, 1, m.Len())
	_, err := m.Get(ctx, "providers:a")
	assert.NoError(t, err)
}

func TestMemory_Sweep(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Set(ctx, "old", []byte("x"), -time.Second)
	m.Set(ctx, "new", []byte("y"), time.Minute)
	m.sweep()
	assert.Equal(t, 1, m.Len())
}

func TestKey_HidesScope(t *testing.T) {
	k := Key("policies", "secret-token")
	assert.NotContains(t, k, "secret-token")
	assert.Equal(t, k, Key("policies", "secret-token"))
	assert.NotEqual(t, k, Key("policies", "other-token"))
}

func TestGetOrLoad(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"Star Health"}, nil
	}

	v, err := GetOrLoad(ctx, m, "providers:x", time.Minute, false, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Star Health"}, v)

	v, err = GetOrLoad(ctx, m, "providers:x", time.Minute, false, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Star Health"}, v)
	assert.Equal(t, 1, calls)

	_, err = GetOrLoad(ctx, m, "providers:x", time.Minute, true, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoad_ErrorNotCached(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	boom := errors.New("upstream down")

	_, err := GetOrLoad(ctx, m, "k", time.Minute, false, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())
}

func TestRedis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	r := NewRedis(client)
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "test:a", []byte("1"), time.Minute))
	got, err := r.Get(ctx, "test:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	require.NoError(t, r.DeletePrefix(ctx, "test:"))
	_, err = r.Get(ctx, "test:a")
	assert.ErrorIs(t, err, ErrMiss)
}
