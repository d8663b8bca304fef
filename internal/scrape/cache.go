package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// Cache stores encoded scrape results
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is a Cache backed by redis
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// ConnectRedis opens a redis client and checks it answers. An empty addr means no cache.
func ConnectRedis(ctx context.Context, addr, password string, db int, log *zap.Logger) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", zap.String("addr", addr), zap.Error(err))
		_ = rdb.Close()
		return nil, err
	}
	log.Info("Connected to Redis", zap.String("addr", addr))
	return rdb, nil
}
