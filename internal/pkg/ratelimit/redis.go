package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window counter shared by every API instance.
type Redis struct {
	client    *redis.Client
	prefix    string
	perWindow int64
	window    time.Duration
	now       func() time.Time
}

func NewRedis(client *redis.Client, perMinute int) *Redis {
	return &Redis{
		client:    client,
		prefix:    "ratelimit:",
		perWindow: int64(perMinute),
		window:    time.Minute,
		now:       time.Now,
	}
}

// NewRedisClient parses redisURL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := r.now()
	slot := now.UnixNano() / int64(r.window)
	windowKey := fmt.Sprintf("%s%s:%d", r.prefix, key, slot)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.Expire(ctx, windowKey, r.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	if incr.Val() > r.perWindow {
		windowEnd := time.Unix(0, (slot+1)*int64(r.window))
		return false, windowEnd.Sub(now), nil
	}
	return true, 0, nil
}
