package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client as a namespaced key-value store
type Cache struct {
	client    *redis.Client
	namespace string
}

// NewCache connects to Redis at addr. Keys are stored under "<namespace>:".
func NewCache(ctx context.Context, addr, namespace string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr)

	return newCache(client, namespace), nil
}

func newCache(client *redis.Client, namespace string) *Cache {
	return &Cache{
		client:    client,
		namespace: namespace,
	}
}

// GenerateKey prefixes key with the cache namespace
func (c *Cache) GenerateKey(key string) string {
	if c.namespace == "" {
		return key
	}
	return c.namespace + ":" + key
}

// Get retrieves a value; a missing key returns nil, nil
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.GenerateKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value without expiry
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.GenerateKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.GenerateKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Health returns cache health information
func (c *Cache) Health(ctx context.Context) map[string]any {
	health := map[string]any{
		"status": "healthy",
		"type":   "redis",
	}

	if err := c.client.Ping(ctx).Err(); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
		return health
	}

	if dbSize, err := c.client.DBSize(ctx).Result(); err == nil {
		health["key_count"] = dbSize
	}

	return health
}
