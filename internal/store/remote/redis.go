package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfsync/shelfsync/internal/domain"
)

// DefaultDocumentTTL is how long a synced document lives in Redis without
// being rewritten.
const DefaultDocumentTTL = 90 * 24 * time.Hour

const redisKeyPrefix = "shelf:doc:"

// RedisClient talks directly to a networked key-value store, one JSON
// document per user key.
type RedisClient struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisClient(rdb *redis.Client, ttl time.Duration) *RedisClient {
	if ttl <= 0 {
		ttl = DefaultDocumentTTL
	}
	return &RedisClient{rdb: rdb, ttl: ttl}
}

func docKey(userID string) string {
	return redisKeyPrefix + userID
}

func (c *RedisClient) Fetch(ctx context.Context, userID string) (*domain.Document, error) {
	data, err := c.rdb.Get(ctx, docKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode remote document: %w", err)
	}
	return &doc, nil
}

func (c *RedisClient) Write(ctx context.Context, doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if len(data) > domain.MaxPayloadBytes {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}
	if len(doc.Items) > domain.MaxItems {
		return fmt.Errorf("%w: %d items", ErrPayloadTooLarge, len(doc.Items))
	}

	if err := c.rdb.Set(ctx, docKey(doc.UserID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
