package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Bounds for cache work that outlives the request that started it.
const (
	loadTimeout       = 10 * time.Second
	invalidateTimeout = 2 * time.Second
)

// ListCache is the read-through cache used for list queries. A nil ListCache disables caching.
type ListCache[T any] interface {
	Get(ctx context.Context) ([]T, error)
	Set(ctx context.Context, list []T) error
	Invalidate(ctx context.Context) error
}

// listCache serves a list through a ListCache. Concurrent misses share one
// load; a load that overlaps a write is returned but never stored.
type listCache[T any] struct {
	key   string
	cache ListCache[T]
	log   *zap.Logger
	sf    singleflight.Group

	// mu orders stores against invalidations; gen counts invalidations.
	mu  sync.Mutex
	gen atomic.Uint64
}

func newListCache[T any](key string, c ListCache[T], log *zap.Logger) *listCache[T] {
	return &listCache[T]{key: key, cache: c, log: log}
}

func (l *listCache[T]) list(ctx context.Context, load func(context.Context) ([]T, error)) ([]T, error) {
	if l.cache == nil {
		return load(ctx)
	}
	gen := l.gen.Load()
	ch := l.sf.DoChan(l.key+"@"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return l.fill(lctx, gen, load)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *listCache[T]) fill(ctx context.Context, gen uint64, load func(context.Context) ([]T, error)) ([]T, error) {
	list, err := l.cache.Get(ctx)
	if err != nil {
		l.log.Warn("cache get failed", zap.String("key", l.key), zap.Error(err))
	} else if list != nil {
		return list, nil
	}
	list, err = load(ctx)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen.Load() != gen {
		return list, nil
	}
	if err := l.cache.Set(ctx, list); err != nil {
		l.log.Warn("cache set failed", zap.String("key", l.key), zap.Error(err))
	}
	return list, nil
}

// invalidate drops the cached list after a write. It runs even when the
// caller's context is already done.
func (l *listCache[T]) invalidate(ctx context.Context) {
	if l.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen.Add(1)
	if err := l.cache.Invalidate(ctx); err != nil {
		l.log.Warn("cache invalidate failed", zap.String("key", l.key), zap.Error(err))
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
