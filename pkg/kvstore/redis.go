package kvstore

import (
	"context"

	"github.com/go-redis/redis/v8"
)

var ctx = context.Background()

type Redis struct {
	client *redis.Client
}

func NewRedis(addr string, password string, db int) (KVStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return Redis{client: rdb}, nil
}

func (r Redis) Get(key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r Redis) Set(key string, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r Redis) Delete(key string) error {
	return r.client.Del(ctx, key).Err()
}
