package redisdb

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

type RedisConfig struct {
	Address  string `yaml:"redis_address"`
	Password string `yaml:"redis_password"`
	DB       int    `yaml:"redis_db"`
}

func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "failed to connect to redis at %s", cfg.Address)
	}
	return client, nil
}
