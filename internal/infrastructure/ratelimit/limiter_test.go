package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_AllowsBurstThenBlocks(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(ctx, "ip", 3, time.Minute), "request %d", i)
	}
	assert.False(t, l.Allow(ctx, "ip", 3, time.Minute))
	assert.True(t, l.Allow(ctx, "other", 3, time.Minute))

	now = now.Add(20 * time.Second)
	assert.True(t, l.Allow(ctx, "ip", 3, time.Minute))
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }

	l.Allow(context.Background(), "a", 1, time.Minute)
	now = now.Add(time.Hour)
	l.Allow(context.Background(), "b", 1, time.Minute)

	assert.Equal(t, 1, l.Sweep(10*time.Minute))
	assert.Equal(t, 1, l.Len())
}

func TestDisabledLimitersAllow(t *testing.T) {
	var r *RedisLimiter
	assert.Nil(t, NewRedisLimiter(nil))
	assert.True(t, r.Allow(context.Background(), "k", 1, time.Second))
	assert.True(t, Fallback{}.Allow(context.Background(), "k", 1, time.Second))
	assert.True(t, NewMemoryLimiter().Allow(context.Background(), "", 1, time.Second))
}
