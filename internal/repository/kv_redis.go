package repository

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "training_portal:"

// RedisKV Redis 键值后端
type RedisKV struct {
	rdb *redis.Client
}

func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{rdb: rdb}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

func (r *RedisKV) Remove(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+key).Err()
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
