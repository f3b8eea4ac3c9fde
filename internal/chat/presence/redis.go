package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTracker stores typing entries as TTL keys so presence survives across
// multiple gateway instances. Redis handles expiry; reads never see a stale
// entry.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTracker(client *redis.Client, ttl time.Duration) *RedisTracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisTracker{client: client, ttl: ttl}
}

func typingRedisKey(conversationID, userID uint64) string {
	return fmt.Sprintf("typing:%d:%d", conversationID, userID)
}

func (t *RedisTracker) SetTyping(ctx context.Context, conversationID, userID uint64) error {
	return t.client.Set(ctx, typingRedisKey(conversationID, userID), 1, t.ttl).Err()
}

func (t *RedisTracker) IsTyping(ctx context.Context, conversationID, userID uint64) (bool, error) {
	n, err := t.client.Exists(ctx, typingRedisKey(conversationID, userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (t *RedisTracker) ClearTyping(ctx context.Context, conversationID, userID uint64) error {
	return t.client.Del(ctx, typingRedisKey(conversationID, userID)).Err()
}
