package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"precinct/internal/session"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

const activeSessionPrefix = "session:active:"

// RedisCache caches active session records with a TTL so profile-heavy pages
// do not hit Postgres for every request. It is a cache, not the system of
// record: misses fall through to the Store.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) key(sessionID id.SessionID) string {
	return activeSessionPrefix + sessionID.String()
}

// Put caches a session record. Inactive records are removed instead so the
// cache only ever answers for live sessions.
func (c *RedisCache) Put(ctx context.Context, record *session.Record) error {
	if !record.Descriptor.IsActive {
		return c.Delete(ctx, record.Descriptor.SessionID)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	if err := c.client.Set(ctx, c.key(record.Descriptor.SessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache session record: %w", err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, sessionID id.SessionID) (*session.Record, error) {
	val, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cached session: %w", err)
	}

	var record session.Record
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("unmarshal cached session: %w", err)
	}
	return &record, nil
}

func (c *RedisCache) Delete(ctx context.Context, sessionID id.SessionID) error {
	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("evict cached session: %w", err)
	}
	return nil
}
