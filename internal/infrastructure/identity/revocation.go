package identity

import (
	"context"
	"sync"
	"time"

	"swadesh-intern/internal/infrastructure/cache"
)

// Revocations remembers signed-out token ids until they would have expired
// anyway. Entries go to redis when it is up and to process memory
// otherwise.
type Revocations struct {
	cache *cache.Redis

	mu    sync.Mutex
	local map[string]time.Time
	now   func() time.Time
}

func NewRevocations(c *cache.Redis) *Revocations {
	return &Revocations{cache: c, local: map[string]time.Time{}, now: time.Now}
}

func (r *Revocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if r.cache.Available() {
		return r.cache.SetJSON(ctx, cache.RevokedTokenKey(jti), true, ttl)
	}
	r.mu.Lock()
	r.local[jti] = until
	r.mu.Unlock()
	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	r.mu.Lock()
	until, ok := r.local[jti]
	if ok && !r.now().Before(until) {
		delete(r.local, jti)
		ok = false
	}
	r.mu.Unlock()
	if ok {
		return true, nil
	}
	return r.cache.Exists(ctx, cache.RevokedTokenKey(jti))
}

// Sweep drops expired in-memory entries.
func (r *Revocations) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, until := range r.local {
		if !now.Before(until) {
			delete(r.local, k)
			n++
		}
	}
	return n
}
