package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"focus-starter/internal/models"
)

// UserUpdatesChannel is the pub/sub channel the websocket hub subscribes to
// for one user.
func UserUpdatesChannel(userID string) string {
	return "user_updates:" + userID
}

// RedisPublisher fans session events out over Redis pub/sub. A nil
// *RedisPublisher drops every event.
type RedisPublisher struct {
	redis *redis.Client
}

func NewRedisPublisher(redisClient *redis.Client) *RedisPublisher {
	if redisClient == nil {
		return nil
	}
	return &RedisPublisher{redis: redisClient}
}

func (p *RedisPublisher) Publish(ctx context.Context, userID string, msg models.WSMessage) {
	if p == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("events: marshal %s: %v", msg.Type, err)
		return
	}
	if err := p.redis.Publish(ctx, UserUpdatesChannel(userID), string(data)).Err(); err != nil {
		log.Printf("events: publish %s for %s: %v", msg.Type, userID, err)
	}
}
