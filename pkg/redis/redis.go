package redis

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/pkg/retry"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
}

func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		PoolSize:     20,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	}
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client wraps redis.Client for the list operations the notification queue uses.
type Client struct {
	rdb *redis.Client
}

// NewClient connects and pings with backoff before returning.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	r := retry.New(retry.Config{MaxRetries: cfg.MaxRetries, InitialInterval: 500 * time.Millisecond, MaxInterval: 3 * time.Second})
	res := r.Do(ctx, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}, nil)
	if res.Err != nil {
		rdb.Close()
		cause := res.LastError
		if cause == nil {
			cause = res.Err
		}
		return nil, fmt.Errorf("connect redis %s after %d attempts: %w", cfg.Addr(), res.Attempts, cause)
	}

	return &Client{rdb: rdb}, nil
}

// LPush prepends a payload to a list.
func (c *Client) LPush(ctx context.Context, key string, payload []byte) error {
	return c.rdb.LPush(ctx, key, payload).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
