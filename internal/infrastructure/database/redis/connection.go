// internal/infrastructure/database/redis/connection.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/kvstore"
)

// Client wraps the Redis client and serves as the durable store for carts and wishlists
type Client struct {
	Redis  *redis.Client
	keyTTL time.Duration
}

// NewConnection creates a new Redis connection
func NewConnection(cfg *config.Config) (*Client, error) {
	// Create Redis client
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,

		// Connection timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// Pool timeouts
		PoolTimeout: 4 * time.Second,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis connection established successfully")

	return NewClient(rdb, cfg.Redis.KeyTTL), nil
}

// NewClient wraps an existing redis client. A zero keyTTL stores keys without expiry.
func NewClient(rdb *redis.Client, keyTTL time.Duration) *Client {
	return &Client{
		Redis:  rdb,
		keyTTL: keyTTL,
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.Redis.Close()
}

// Health checks the Redis connection health
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.Redis.Ping(ctx).Err()
}

// Get retrieves a value by key
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kvstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set stores a value, refreshing its expiration
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	if err := c.Redis.Set(ctx, key, value, c.keyTTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.Redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Increment bumps a fixed-window counter and returns its new value.
// The window starts with the first increment.
func (c *Client) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.Redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	if count == 1 {
		if err := c.Redis.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("redis expire %s: %w", key, err)
		}
	}
	return count, nil
}
