package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spectramedia/bettybot/internal/chat"
)

const conversationTTL = 24 * time.Hour

// RedisStore persists conversations as JSON lists so several instances can
// serve the same embedded widget. Keys expire after conversationTTL of
// inactivity.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a redis-backed conversation store.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	return &RedisStore{redis: client}
}

func conversationKey(key string) string {
	return fmt.Sprintf("conversation:%s", key)
}

// History loads all stored turns for key. A missing key is an empty
// conversation, not an error.
func (s *RedisStore) History(ctx context.Context, key string) ([]chat.Turn, error) {
	items, err := s.redis.LRange(ctx, conversationKey(key), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("conversation: failed to load history: %w", err)
	}

	turns := make([]chat.Turn, 0, len(items))
	for _, item := range items {
		var turn chat.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("conversation: failed to decode stored turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Append pushes turns onto the conversation list and refreshes its TTL.
func (s *RedisStore) Append(ctx context.Context, key string, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("conversation: failed to marshal turn: %w", err)
		}
		values = append(values, data)
	}

	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, conversationKey(key), values...)
	pipe.Expire(ctx, conversationKey(key), conversationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("conversation: failed to persist turns: %w", err)
	}
	return nil
}

// Reset deletes the conversation for key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, conversationKey(key)).Err(); err != nil {
		return fmt.Errorf("conversation: failed to reset conversation: %w", err)
	}
	return nil
}
