package config

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

var Redis *CacheService

// CacheService backs the advisory layer: flood-guard marks and cached
// platform stats. Nothing authoritative lives here.
type CacheService struct {
	Ctx        context.Context
	Connection *redis.Client
}

func NewCacheService() error {
	c := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
		Username: os.Getenv("REDIS_USERNAME"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	ctx := context.Background()

	if err := c.Ping(ctx).Err(); err != nil {
		return err
	}

	Redis = &CacheService{
		Ctx:        ctx,
		Connection: c,
	}

	return nil
}

func (c *CacheService) GetKey(key string, src interface{}) error {
	val, err := c.Connection.Get(c.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), src)
}

func (c *CacheService) SetKey(key string, value interface{}, expiration time.Duration) error {
	cache_entry, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Connection.Set(c.Ctx, key, cache_entry, expiration).Err()
}

func (c *CacheService) DeleteKey(key string) error {
	return c.Connection.Del(c.Ctx, key).Err()
}
