package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/ledgerline/bank/shared/logger"
	goredis "github.com/redis/go-redis/v9"
)

// RecordCache stores JSON snapshots of records keyed by their numeric id.
// A nil client turns every operation into a no-op, and Redis failures
// degrade to cache misses: the store behind it stays authoritative.
type RecordCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewRecordCache keys records as prefix + ":" + id. A ttl of 0 keeps keys
// until they are evicted.
func NewRecordCache[T any](client *goredis.Client, prefix string, ttl time.Duration) *RecordCache[T] {
	return &RecordCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *RecordCache[T]) key(id int64) string {
	return c.prefix + ":" + strconv.FormatInt(id, 10)
}

// Get returns the cached record for id, if any.
func (c *RecordCache[T]) Get(ctx context.Context, id int64) (*T, bool) {
	if c.client == nil {
		return nil, false
	}
	key := c.key(id)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.Warn("record cache read failed", logger.Fields{"key": key, "error": err.Error()})
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("dropping unreadable cache entry", logger.Fields{"key": key, "error": err.Error()})
		c.Evict(ctx, id)
		return nil, false
	}
	return &v, true
}

// Put stores value under id.
func (c *RecordCache[T]) Put(ctx context.Context, id int64, value *T) {
	if c.client == nil || value == nil {
		return
	}
	key := c.key(id)
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error("record cache encode failed", err, logger.Fields{"key": key})
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("record cache write failed", logger.Fields{"key": key, "error": err.Error()})
	}
}

func (c *RecordCache[T]) Evict(ctx context.Context, id int64) {
	if c.client == nil {
		return
	}
	key := c.key(id)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("record cache evict failed", logger.Fields{"key": key, "error": err.Error()})
	}
}

// Load is a read-through: a hit is returned as is, a miss calls load and
// caches its result. Errors from load are returned and nothing is cached.
func (c *RecordCache[T]) Load(ctx context.Context, id int64, load func(context.Context, int64) (*T, error)) (*T, error) {
	if v, ok := c.Get(ctx, id); ok {
		return v, nil
	}
	v, err := load(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Put(ctx, id, v)
	return v, nil
}
