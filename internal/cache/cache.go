package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors:
// a cold or unreachable redis degrades to a permanent cache miss.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	_ = c.client.Del(ctx, keys...).Err()
	return nil
}

// GetJSON unmarshals a cached value into dest, reporting whether it was found.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	data, _ := c.Get(ctx, key)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON marshals value and stores it with TTL. Marshal failures are
// swallowed the same way redis failures are.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, payload, ttl)
}
