package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients holds one connection pool per role. Stats and content
// caching use Cache; the websocket hub and the event publisher use PubSub,
// whose subscriptions hold a connection for as long as a user is connected.
type RedisClients struct {
	Cache  *redis.Client
	PubSub *redis.Client
}

func NewRedisClients(redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Cache misses must not stall a ledger call.
	cacheOpt := *opt
	cacheOpt.ClientName = "focus-starter:cache"
	cacheOpt.ReadTimeout = time.Second
	cacheOpt.WriteTimeout = time.Second
	cacheClient := redis.NewClient(&cacheOpt)
	if err := cacheClient.Ping(ctx).Err(); err != nil {
		cacheClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (cache): %w", err)
	}

	pubsubOpt := *opt
	pubsubOpt.ClientName = "focus-starter:pubsub"
	pubsubClient := redis.NewClient(&pubsubOpt)
	if err := pubsubClient.Ping(ctx).Err(); err != nil {
		cacheClient.Close()
		pubsubClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (pubsub): %w", err)
	}

	return &RedisClients{
		Cache:  cacheClient,
		PubSub: pubsubClient,
	}, nil
}

// Ping checks both pools.
func (r *RedisClients) Ping(ctx context.Context) error {
	if err := r.Cache.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := r.PubSub.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pubsub: %w", err)
	}
	return nil
}

func (r *RedisClients) Close() error {
	return errors.Join(r.Cache.Close(), r.PubSub.Close())
}
