package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Redis struct {
	Client    *redis.Client
	Ctx       context.Context
	CancelCtx context.CancelFunc
}

func (r *Redis) GetClient() *redis.Client {
	return r.Client
}

// NewRedis connects to the claim store and hold queue backend and verifies it answers a ping.
func NewRedis(url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	redisCtx, cancelRedis := context.WithCancel(context.Background())

	pingCtx, cancelPing := context.WithTimeout(redisCtx, 5*time.Second)
	defer cancelPing()

	if err := client.Ping(pingCtx).Err(); err != nil {
		cancelRedis()
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	Logger.Info().Str("addr", opt.Addr).Int("db", opt.DB).Msg("connected to redis")

	return &Redis{
		Client:    client,
		Ctx:       redisCtx,
		CancelCtx: cancelRedis,
	}, nil
}

func (c *Redis) Close() error {
	c.CancelCtx()
	return closeRedisClient(c.Client)
}

func closeRedisClient(client *redis.Client) error {
	if err := client.Close(); err != nil {
		Logger.Error().Err(err).Msg("error closing Redis client")
		return fmt.Errorf("failed to close Redis client: %w", err)
	}
	return nil
}
