package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/config"
	"swadesh-intern/internal/logging"
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis is a best-effort JSON cache. When the server cannot be reached at
// start-up every call becomes a miss / no-op so callers fall through to
// Postgres.
type Redis struct {
	client     *redis.Client
	logger     logrus.FieldLogger
	defaultTTL time.Duration

	warnedUnavailable atomic.Bool
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, logger logrus.FieldLogger) *Redis {
	logger = logging.OrDiscard(logger)
	addr := fmt.Sprintf("%s:%s", strings.TrimSpace(cfg.Host), strings.TrimSpace(cfg.Port))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).WithField("addr", addr).Warn("redis unavailable, bypassing cache")
		_ = client.Close()
		return &Redis{logger: logger, defaultTTL: cfg.TTL}
	}

	logger.WithField("addr", addr).Info("redis connected")
	return &Redis{client: client, logger: logger, defaultTTL: cfg.TTL}
}

// NewFromClient wraps an existing client; a nil client yields a disabled cache.
func NewFromClient(client *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *Redis {
	return &Redis{client: client, logger: logging.OrDiscard(logger), defaultTTL: ttl}
}

// Client exposes the underlying client for components that need raw
// commands (rate limiting). It is nil when redis is unavailable.
func (r *Redis) Client() *redis.Client {
	if r == nil {
		return nil
	}
	return r.client
}

func (r *Redis) Available() bool {
	return !r.isUnavailable()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.WithError(err).Warn("redis call failed, bypassing cache")
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl()
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.isUnavailable() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.isUnavailable() {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if err := r.client.Del(ctx, k).Err(); err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{"key": k, "pattern": pattern}).Warn("redis delete failed")
		}
	}
	return iter.Err()
}

// InvalidateJobs drops cached listings of board and the cached job itself.
func (r *Redis) InvalidateJobs(ctx context.Context, board string, jobID string) error {
	if r.isUnavailable() {
		return nil
	}
	var firstErr error
	if err := r.DeleteByPattern(ctx, JobListPattern(board)); err != nil {
		firstErr = err
	}
	if jobID != "" {
		if err := r.Delete(ctx, JobKey(jobID)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := r.Delete(ctx, StatsKey); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// SetIfNotExists takes a short-lived lock. Without a server it reports
// ErrUnavailable so callers can tell "held elsewhere" from "no lock service".
func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if r.isUnavailable() {
		return false, ErrUnavailable
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return ok, nil
}

// Exists reports whether key is present. An unavailable cache reports false.
func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) ttl() time.Duration {
	if r.defaultTTL > 0 {
		return r.defaultTTL
	}
	return 10 * time.Minute
}
