package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisGateway backs the persistence contract with Redis. Snapshots are
// small JSON blobs, one key per store.
type RedisGateway struct {
	rdb *redis.Client
}

// NewRedisGateway connects to Redis and verifies the connection.
func NewRedisGateway(addr, password string, db int) (*RedisGateway, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisGateway{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (g *RedisGateway) Close() error {
	return g.rdb.Close()
}

// Get returns the value stored under key, or ErrNotFound.
func (g *RedisGateway) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := g.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key with no expiry.
func (g *RedisGateway) Set(ctx context.Context, key string, value []byte) error {
	if err := g.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Deleting an absent key is not an error.
func (g *RedisGateway) Remove(ctx context.Context, key string) error {
	if err := g.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Clear removes every storefront key.
func (g *RedisGateway) Clear(ctx context.Context) error {
	keys := []string{KeyCart, KeyFavorites, KeyProductsCache}
	if err := g.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}
