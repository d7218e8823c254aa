package remote

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueryTimeout is the per-operation timeout applied to every Redis
// call. Prevents indefinite hangs on a slow or unresponsive server.
const DefaultQueryTimeout = 5 * time.Second

type config struct {
	queryTimeout time.Duration
	prefix       string
}

// Option configures the Redis adapter.
type Option func(*config)

// WithQueryTimeout sets the per-operation timeout.
// Defaults to DefaultQueryTimeout (5 seconds).
func WithQueryTimeout(d time.Duration) Option {
	return func(c *config) { c.queryTimeout = d }
}

// WithPrefix sets a key prefix for namespacing multiple caches on the same
// Redis instance. Defaults to empty (no prefix).
func WithPrefix(p string) Option {
	return func(c *config) { c.prefix = p }
}

type redisRemote struct {
	client *redis.Client
	cfg    config
}

var _ Remote = (*redisRemote)(nil)

// NewRedis returns a Remote backed by Redis.
// The caller owns the redis.Client lifecycle.
func NewRedis(client *redis.Client, opts ...Option) Remote {
	cfg := config{queryTimeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &redisRemote{client: client, cfg: cfg}
}

func (r *redisRemote) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, r.cfg.queryTimeout)
}

func (r *redisRemote) prefixKey(key string) string {
	if r.cfg.prefix == "" {
		return key
	}
	return r.cfg.prefix + ":" + key
}

func (r *redisRemote) Get(ctx context.Context, key string) ([]byte, bool, error) {
	qctx, cancel := r.queryCtx(ctx)
	defer cancel()
	data, err := r.client.Get(qctx, r.prefixKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("get", err)
	}
	return data, true, nil
}

func (r *redisRemote) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	qctx, cancel := r.queryCtx(ctx)
	defer cancel()
	if err := r.client.Set(qctx, r.prefixKey(key), value, ttl).Err(); err != nil {
		return unavailable("set", err)
	}
	return nil
}

func (r *redisRemote) SetXX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	qctx, cancel := r.queryCtx(ctx)
	defer cancel()
	applied, err := r.client.SetXX(qctx, r.prefixKey(key), value, ttl).Result()
	if err != nil {
		return false, unavailable("setxx", err)
	}
	return applied, nil
}

func (r *redisRemote) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	qctx, cancel := r.queryCtx(ctx)
	defer cancel()
	applied, err := r.client.SetNX(qctx, r.prefixKey(key), value, ttl).Result()
	if err != nil {
		return false, unavailable("setnx", err)
	}
	return applied, nil
}

func (r *redisRemote) Del(ctx context.Context, key string) (bool, error) {
	qctx, cancel := r.queryCtx(ctx)
	defer cancel()
	n, err := r.client.Del(qctx, r.prefixKey(key)).Result()
	if err != nil {
		return false, unavailable("del", err)
	}
	return n > 0, nil
}

func (r *redisRemote) Exists(ctx context.Context, key string) (bool, error) {
	qctx, cancel := r.queryCtx(ctx)
	defer cancel()
	n, err := r.client.Exists(qctx, r.prefixKey(key)).Result()
	if err != nil {
		return false, unavailable("exists", err)
	}
	return n > 0, nil
}
