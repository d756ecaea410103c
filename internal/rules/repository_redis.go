package rules

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

// key 约定：
//
//	kv: rules:moves:{hand}|{played}|{lead}|{plays} -> MovesResult JSON
func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return r.rdb.Set(ctx, key, value, time.Duration(ttlSeconds)*time.Second).Err()
}
