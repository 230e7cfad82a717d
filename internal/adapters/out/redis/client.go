// Package redis keeps the profile document in a Redis hash, one field per user.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dispatch/internal/pkg/metrics"
)

// Config selects the Redis server.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Key names the hash holding the document.
	Key string
}

// NewClient connects to Redis, checks the connection and counts failed commands.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	client.AddHook(errorCountingHook{})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// errorCountingHook implements redis.Hook and counts commands that fail with
// anything but redis.Nil.
type errorCountingHook struct{}

func (errorCountingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errorCountingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && err != redis.Nil {
			metrics.StoreErrorsTotal.WithLabelValues("redis", cmd.Name()).Inc()
		}
		return err
	}
}

func (errorCountingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && err != redis.Nil {
			metrics.StoreErrorsTotal.WithLabelValues("redis", "pipeline").Inc()
		}
		return err
	}
}
