package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "github.com/dunamismax/hypermedia/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyTodoList  = "todo:list"
	keyImageList = "gallery:list"
)

// ListCache caches a single list query result in Redis as JSON.
type ListCache[T any] struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewListCache returns a cache stored under key.
func NewListCache[T any](rdb *redis.Client, key string, ttl time.Duration) *ListCache[T] {
	return &ListCache[T]{rdb: rdb, key: key, ttl: ttl}
}

// NewTodoCache returns the cache for the to-do list.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *ListCache[dom.Todo] {
	return NewListCache[dom.Todo](rdb, keyTodoList, ttl)
}

// NewImageCache returns the cache for the gallery list.
func NewImageCache(rdb *redis.Client, ttl time.Duration) *ListCache[dom.Image] {
	return NewListCache[dom.Image](rdb, keyImageList, ttl)
}

// Get returns the cached list or nil on miss. An empty cached list is
// returned as a non-nil empty slice.
func (c *ListCache[T]) Get(ctx context.Context) ([]T, error) {
	b, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := make([]T, 0)
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Set stores the list.
func (c *ListCache[T]) Set(ctx context.Context, list []T) error {
	if list == nil {
		list = make([]T, 0)
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key, b, c.ttl).Err()
}

// Invalidate drops the cached list (called after every write).
func (c *ListCache[T]) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}
