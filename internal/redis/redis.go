package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nixie-Tech-LLC/namaz/internal/timings"
)

const revokedPrefix = "revoked:"

// Client wraps go-redis with the few operations the service needs: revoked
// session tokens and cached prayer times.
type Client struct {
	rdb *redis.Client
}

var _ timings.Cache = (*Client)(nil)

func New(address, username, password string) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Revoke marks a token id as signed out until ttl elapses.
func (c *Client) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.rdb.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (c *Client) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func (c *Client) GetTimings(ctx context.Context, key string) (timings.Result, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return timings.Result{}, false, nil
	}
	if err != nil {
		return timings.Result{}, false, err
	}
	var r timings.Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return timings.Result{}, false, fmt.Errorf("decode cached timings: %w", err)
	}
	return r, true, nil
}

func (c *Client) SetTimings(ctx context.Context, key string, r timings.Result, ttl time.Duration) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}
