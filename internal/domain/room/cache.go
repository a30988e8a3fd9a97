package room

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefixRoom = "room:"

// Cache stores room snapshots. A miss returns nil, nil.
type Cache interface {
	Get(ctx context.Context, id int64) (*Room, error)
	Set(ctx context.Context, room *Room) error
}

type redisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache creates a Redis backed room cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{redis: client, ttl: ttl}
}

func roomKey(id int64) string {
	return keyPrefixRoom + strconv.FormatInt(id, 10)
}

func (c *redisCache) Get(ctx context.Context, id int64) (*Room, error) {
	raw, err := c.redis.Get(ctx, roomKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var room Room
	if err := json.Unmarshal(raw, &room); err != nil {
		// Entry written by an older layout, drop it.
		c.redis.Del(ctx, roomKey(id))
		return nil, nil
	}
	return &room, nil
}

func (c *redisCache) Set(ctx context.Context, room *Room) error {
	raw, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, roomKey(room.ID), raw, c.ttl).Err()
}
