package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/turboost/turboost-backend/pkg/logger"
	"github.com/turboost/turboost-backend/pkg/redis"
)

type redisStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStorage keeps each session's cart as a JSON document under the
// session's cart key.
type RedisStorage struct {
	client redisStore
	log    *logger.Logger
	ttl    time.Duration
}

// NewRedisStorage builds cart storage on the shared redis client. A
// non-positive ttl keeps documents until explicitly deleted.
func NewRedisStorage(client *redis.Client, log *logger.Logger, ttl time.Duration) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStorage{client: client, log: log, ttl: ttl}, nil
}

// Save writes the full line list, replacing whatever was stored.
func (r *RedisStorage) Save(ctx context.Context, sessionID string, lines []LineItem) error {
	if len(lines) == 0 {
		return r.client.Del(ctx, r.client.CartKey(sessionID))
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart document: %w", err)
	}
	return r.client.Set(ctx, r.client.CartKey(sessionID), string(raw), r.ttl)
}

// Load reads the stored line list. Missing or unparsable documents
// yield an empty cart.
func (r *RedisStorage) Load(ctx context.Context, sessionID string) ([]LineItem, error) {
	raw, err := r.client.Get(ctx, r.client.CartKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart document: %w", err)
	}

	var lines []LineItem
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		if r.log != nil {
			r.log.Warn(r.log.WithSessionID(ctx, sessionID), "discarding corrupt cart document")
		}
		return nil, nil
	}

	valid := lines[:0]
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 {
			continue
		}
		valid = append(valid, line)
	}
	return valid, nil
}
