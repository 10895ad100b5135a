// Package quotecache mirrors the latest quote per symbol into Redis and
// fans it out over pub/sub for external dashboards.
package quotecache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "stock:"
	channelPrefix = "prices."
	quoteTTL      = time.Hour
)

type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Store writes the serialized quote under stock:<SYMBOL> and publishes it on
// prices.<SYMBOL> in one round trip.
func (c *Cache) Store(ctx context.Context, symbol string, payload []byte) error {
	pipe := c.client.Pipeline()
	pipe.Set(ctx, keyPrefix+symbol, payload, quoteTTL)
	pipe.Publish(ctx, channelPrefix+symbol, payload)
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns the cached quote for a symbol, or redis.Nil when absent.
func (c *Cache) Get(ctx context.Context, symbol string) ([]byte, error) {
	return c.client.Get(ctx, keyPrefix+symbol).Bytes()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
