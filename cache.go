package journal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/singleflight"
)

// StaleNever keeps an entry fresh until it is invalidated.
const StaleNever = time.Duration(math.MaxInt64)

// Key addresses a cache entry by resource type followed by its parameters,
// e.g. Key{"posts", 1, 10} or Key{"post", "my-slug"}.
type Key []any

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, "\x1f")
}

// HasPrefix reports whether k starts with every element of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if fmt.Sprint(k[i]) != fmt.Sprint(prefix[i]) {
			return false
		}
	}
	return true
}

// QueryOptions tune how a single read uses the cache.
type QueryOptions struct {
	StaleTime  time.Duration // how long a fetched value is served without refetching
	Retries    int           // extra attempts after a network or server failure
	RetryDelay time.Duration // first backoff; doubles per attempt (default 100ms)
}

type entry struct {
	value       any
	hasValue    bool
	err         error
	updatedAt   time.Time
	invalidated bool
}

// slot tracks one key: its current entry and a generation that every write
// or invalidation bumps, so a fetch that started earlier cannot overwrite it.
type slot struct {
	key   Key
	gen   uint64
	entry *entry
}

// QueryCache holds fetched values keyed by Key. Concurrent reads of one key
// share a single in-flight fetch.
type QueryCache struct {
	mu     sync.RWMutex
	slots  map[string]*slot
	epoch  uint64 // bumped by Clear
	group  singleflight.Group
	logger *log.Logger
	now    func() time.Time
}

// NewQueryCache creates an empty cache.
func NewQueryCache(logger *log.Logger) *QueryCache {
	if logger == nil {
		logger = NewLogger("off")
	}
	return &QueryCache{
		slots:  make(map[string]*slot),
		logger: logger,
		now:    time.Now,
	}
}

func (c *QueryCache) slotLocked(key Key) *slot {
	k := key.String()
	s, ok := c.slots[k]
	if !ok {
		s = &slot{key: key}
		c.slots[k] = s
	}
	return s
}

func (c *QueryCache) fresh(key Key, stale time.Duration) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots[key.String()]
	if !ok || s.entry == nil || !s.entry.hasValue || s.entry.invalidated {
		return nil, false
	}
	if stale != StaleNever && c.now().Sub(s.entry.updatedAt) >= stale {
		return nil, false
	}
	return s.entry.value, true
}

// generation snapshots the state a fetch must still match to be stored.
func (c *QueryCache) generation(key Key) (epoch, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch, c.slotLocked(key).gen
}

// store records a fetch result unless the key was written, invalidated or
// cleared since the fetch began. It reports whether the result was kept.
func (c *QueryCache) store(key Key, epoch, gen uint64, v any, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return false
	}
	s := c.slotLocked(key)
	if s.gen != gen {
		return false
	}
	if err != nil {
		if s.entry == nil {
			s.entry = &entry{}
		}
		s.entry.err = err
		return true
	}
	s.entry = &entry{value: v, hasValue: true, updatedAt: c.now()}
	return true
}

// Query returns the cached value for key when it is still fresh; otherwise it
// calls fetch, sharing that call with every concurrent caller of the same key.
// Callers only share a fetch that began after the key's last write,
// invalidation or clear. The shared fetch keeps running if this caller's ctx
// ends first.
func Query[T any](ctx context.Context, c *QueryCache, key Key, opts QueryOptions, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.fresh(key, opts.StaleTime); ok {
		if typed, ok := v.(T); ok {
			c.logger.Debugf("cache hit %v", []any(key))
			return typed, nil
		}
	}
	c.logger.Debugf("cache miss %v", []any(key))

	epoch, gen := c.generation(key)
	flight := fmt.Sprintf("%s\x1e%d.%d", key.String(), epoch, gen)
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (any, error) {
		v, err := fetchWithRetry(detached, opts, fetch)
		if !c.store(key, epoch, gen, v, err) {
			c.logger.Debugf("discarding result for %v: invalidated during fetch", []any(key))
		}
		return v, err
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func fetchWithRetry[T any](ctx context.Context, opts QueryOptions, fetch func(context.Context) (T, error)) (T, error) {
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	for attempt := 0; ; attempt++ {
		v, err := fetch(ctx)
		if err == nil || attempt >= opts.Retries || !retryable(err) {
			return v, err
		}
		select {
		case <-ctx.Done():
			return v, err
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// retryable reports whether a failed read is worth repeating. Client errors
// (401, 404, validation) are answers, not transient failures.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}

// Set stores v under key as a fresh value.
func (c *QueryCache) Set(key Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slotLocked(key)
	s.gen++
	s.entry = &entry{value: v, hasValue: true, updatedAt: c.now()}
}

// Invalidate marks every entry whose key starts with prefix as stale, so the
// next read refetches, and returns how many keys matched. Fetches already in
// flight for those keys will not be stored.
func (c *QueryCache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.slots {
		if !s.key.HasPrefix(prefix) {
			continue
		}
		s.gen++
		if s.entry != nil {
			s.entry.invalidated = true
		}
		n++
	}
	c.logger.Debugf("invalidated %d entries under %v", n, []any(prefix))
	return n
}

// Remove drops the entry for key entirely.
func (c *QueryCache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[key.String()]; ok {
		s.gen++
		s.entry = nil
	}
}

// Clear drops every entry. Fetches in flight are not stored when they land.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.slots = make(map[string]*slot)
	c.logger.Debugf("cache cleared")
}

// Peek returns the value held for key, fresh or not, without fetching.
func (c *QueryCache) Peek(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots[key.String()]
	if !ok || s.entry == nil || !s.entry.hasValue {
		return nil, false
	}
	return s.entry.value, true
}

// LastError returns the error from the most recent failed fetch of key.
func (c *QueryCache) LastError(key Key) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots[key.String()]
	if !ok || s.entry == nil {
		return nil
	}
	return s.entry.err
}

// Len returns the number of keys holding a value.
func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, s := range c.slots {
		if s.entry != nil && s.entry.hasValue {
			n++
		}
	}
	return n
}
