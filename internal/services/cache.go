package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a best-effort cache: failures are logged and reported as
// misses. A nil *RedisCache is valid and caches nothing.
type RedisCache struct {
	redis *redis.Client
}

func NewRedisCache(redisClient *redis.Client) *RedisCache {
	if redisClient == nil {
		return nil
	}
	return &RedisCache{redis: redisClient}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache: get %s: %v", key, err)
		}
		return "", false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}

func (c *RedisCache) GetField(ctx context.Context, key, field string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.redis.HGet(ctx, key, field).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache: hget %s/%s: %v", key, field, err)
		}
		return "", false
	}
	return val, true
}

// Hash entries are guarded by a generation counter kept at key+":gen".
// Invalidate bumps it, so a reader that loaded its data before the bump
// cannot write that data back afterwards.
const generationTTL = time.Hour

// setFieldIfGeneration writes the field only while the generation still
// equals ARGV[4]. A missing counter reads as 0.
var setFieldIfGeneration = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[4] then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 1
`)

func generationKey(key string) string {
	return key + ":gen"
}

// Generation returns the current generation of key. ok is false when Redis
// could not be read; callers then skip the write-back.
func (c *RedisCache) Generation(ctx context.Context, key string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	gen, err := c.redis.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		log.Printf("cache: get generation %s: %v", key, err)
		return 0, false
	}
	return gen, true
}

// SetFieldIfGeneration stores the field unless key was invalidated after
// gen was read. It reports whether the value was written.
func (c *RedisCache) SetFieldIfGeneration(ctx context.Context, key, field, value string, ttl time.Duration, gen int64) bool {
	if c == nil {
		return false
	}
	written, err := setFieldIfGeneration.Run(ctx, c.redis,
		[]string{key, generationKey(key)},
		field, value, ttl.Milliseconds(), strconv.FormatInt(gen, 10),
	).Int()
	if err != nil {
		log.Printf("cache: hset %s/%s: %v", key, field, err)
		return false
	}
	return written == 1
}

// Invalidate drops every field of key and bumps its generation.
func (c *RedisCache) Invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}
	pipe := c.redis.TxPipeline()
	pipe.Incr(ctx, generationKey(key))
	pipe.Expire(ctx, generationKey(key), generationTTL)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("cache: invalidate %s: %v", key, err)
	}
}
