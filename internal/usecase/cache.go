package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/infrastructure/cache"
)

// Cache is the slice of the redis wrapper the usecases need. A nil Cache is
// replaced by noCache so callers never branch on it.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	InvalidateJobs(ctx context.Context, board string, jobID string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type noCache struct{}

func (noCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (noCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (noCache) Delete(context.Context, string) error                      { return nil }
func (noCache) InvalidateJobs(context.Context, string, string) error      { return nil }
func (noCache) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}

func cacheOrNone(c Cache) Cache {
	if c == nil {
		return noCache{}
	}
	return c
}

const (
	fillLockTTL  = 5 * time.Second
	fillWaitStep = 50 * time.Millisecond
	fillWaits    = 4
)

// readThrough serves key from the cache. On a miss only the caller holding
// the fill lock goes to the loader; the others poll the cache for a short
// while and load without the lock if it is still empty.
func readThrough[T any](ctx context.Context, c Cache, logger logrus.FieldLogger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var out T
	if hit, err := c.GetJSON(ctx, key, &out); err == nil && hit {
		return out, nil
	}

	lock := cache.FillLockKey(key)
	owner, err := c.SetIfNotExists(ctx, lock, "1", fillLockTTL)
	if err == nil && !owner {
		for i := 0; i < fillWaits; i++ {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(fillWaitStep):
			}
			var filled T
			if hit, err := c.GetJSON(ctx, key, &filled); err == nil && hit {
				return filled, nil
			}
		}
		logger.WithField("key", key).Debug("fill lock still held, loading directly")
	}
	if owner {
		defer func() { _ = c.Delete(context.WithoutCancel(ctx), lock) }()
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.SetJSON(ctx, key, v, ttl); err != nil {
		logger.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	return v, nil
}
