package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sooyeonjun/giftpool-backend/pkg/config"
)

const (
	keyNamespace      = "gp"
	deviceTokenPrefix = "device_token"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client wraps the redis connection helpers needed by the platform.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

// Ping verifies the redis connection is healthy.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func deviceTokenKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, deviceTokenPrefix, userID)
}

// SetDeviceToken stores the push token registered by a user's device.
// A zero ttl keeps the token until the next registration overwrites it.
func (c *Client) SetDeviceToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error {
	if userID == uuid.Nil {
		return errors.New("user id is required")
	}
	if token == "" {
		return errors.New("device token is required")
	}
	return c.store.Set(ctx, deviceTokenKey(userID), token, ttl).Err()
}

// DeviceToken returns the stored push token for a user, or "" when none exists.
func (c *Client) DeviceToken(ctx context.Context, userID uuid.UUID) (string, error) {
	val, err := c.store.Get(ctx, deviceTokenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// DeleteDeviceToken drops a user's push token, silencing future pushes.
func (c *Client) DeleteDeviceToken(ctx context.Context, userID uuid.UUID) error {
	return c.store.Del(ctx, deviceTokenKey(userID)).Err()
}
