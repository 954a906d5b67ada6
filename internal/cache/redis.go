// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jason-s-yu/majlis/internal/config"
	"github.com/redis/go-redis/v9"
)

// RoomEventRecord is one broadcast room event as written to the journal list.
type RoomEventRecord struct {
	RoomID    string `json:"room_id"`
	GameType  string `json:"game_type"`
	Seq       int    `json:"seq"`
	EventType string `json:"event_type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// RedisJournal pushes room events onto a capped, expiring Redis list.
type RedisJournal struct {
	client    *redis.Client
	queueName string
	maxLen    int64
	ttl       time.Duration
}

// ConnectRedis creates a client for cfg and pings it.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisJournal wraps an existing client.
func NewRedisJournal(client *redis.Client, cfg config.RedisConfig) *RedisJournal {
	return &RedisJournal{
		client:    client,
		queueName: cfg.QueueName,
		maxLen:    int64(cfg.MaxLen),
		ttl:       cfg.TTL,
	}
}

// PublishRoomEvent serializes the record and appends it to the journal list, trimming it to
// maxLen entries and refreshing the key expiry.
func (j *RedisJournal) PublishRoomEvent(ctx context.Context, record RoomEventRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal RoomEventRecord: %w", err)
	}

	pipe := j.client.TxPipeline()
	pipe.RPush(ctx, j.queueName, data)
	if j.maxLen > 0 {
		pipe.LTrim(ctx, j.queueName, -j.maxLen, -1)
	}
	if j.ttl > 0 {
		pipe.Expire(ctx, j.queueName, j.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", j.queueName, err)
	}
	return nil
}
