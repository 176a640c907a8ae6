// Package query binds resource-client calls to a small read-through
// cache. Reads are deduplicated per key, served from cache until they
// go stale, optionally polled on an interval and guarded by an enabled
// predicate so nothing executes while the session is still loading.
// Writes go through Mutation and are never cached.
package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pawmate/pawmate/internal/observability"
)

// ErrDisabled is returned when a query's enabled predicate holds it
// back. It signals "not yet", not failure; callers keep whatever they
// were showing.
var ErrDisabled = errors.New("query is disabled")

// Config expresses a query's caching behavior as data.
type Config struct {
	// Key identifies the cache entry: owner id plus operation
	// parameters.
	Key string
	// StaleAfter is how long a fetched value is served without a new
	// network call. Zero means every Get refetches.
	StaleAfter time.Duration
	// PollEvery drives background refetching when positive.
	PollEvery time.Duration
	// Enabled gates execution; nil means always enabled.
	Enabled func() bool
}

func (c Config) enabled() bool {
	return c.Enabled == nil || c.Enabled()
}

// Query caches the result of one read operation. Concurrent Gets for
// the same key collapse into one fetch; a fetch that was overtaken by
// Invalidate installs nothing, so the latest request wins.
type Query[T any] struct {
	cfg   Config
	fetch func(context.Context) (T, error)

	mu         sync.Mutex
	value      T
	hasValue   bool
	fetchedAt  time.Time
	lastErr    error
	generation uint64

	sf singleflight.Group
}

func New[T any](cfg Config, fetch func(context.Context) (T, error)) *Query[T] {
	return &Query[T]{cfg: cfg, fetch: fetch}
}

func (q *Query[T]) Key() string { return q.cfg.Key }

// Get returns the cached value while it is fresh, otherwise fetches.
// Returns ErrDisabled without executing anything when the enabled
// predicate says no.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if !q.cfg.enabled() {
		return zero, ErrDisabled
	}

	q.mu.Lock()
	if q.hasValue && q.cfg.StaleAfter > 0 && time.Since(q.fetchedAt) <= q.cfg.StaleAfter {
		v := q.value
		q.mu.Unlock()
		observability.RecordQueryCache(ctx, q.cfg.Key, "hit")
		return v, nil
	}
	outcome := "miss"
	if q.hasValue {
		outcome = "stale"
	}
	q.mu.Unlock()
	observability.RecordQueryCache(ctx, q.cfg.Key, outcome)

	return q.refetch(ctx)
}

// Refetch always goes to the network (still deduplicated), bypassing
// staleness. The realtime adapter calls this on change signals.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	var zero T
	if !q.cfg.enabled() {
		return zero, ErrDisabled
	}
	observability.RecordQueryRefetch(ctx, q.cfg.Key, "signal")
	return q.refetch(ctx)
}

func (q *Query[T]) refetch(ctx context.Context) (T, error) {
	q.mu.Lock()
	startGen := q.generation
	q.mu.Unlock()

	res, err, _ := q.sf.Do(q.cfg.Key, func() (any, error) {
		v, err := q.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	})

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		q.lastErr = err
		var zero T
		return zero, err
	}
	v := res.(T)
	// an Invalidate during the fetch means a newer request owns the
	// cache; deliver the value but do not install it
	if q.generation == startGen {
		q.value = v
		q.hasValue = true
		q.fetchedAt = time.Now()
		q.lastErr = nil
	}
	return v, nil
}

// Peek returns the cached value without any network activity.
func (q *Query[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.value, q.hasValue
}

// LastErr reports the most recent fetch failure, cleared on success.
func (q *Query[T]) LastErr() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastErr
}

// Invalidate drops the cached value. Callers invalidate dependent reads
// after a successful mutation; there is no automatic cross-cache
// invalidation.
func (q *Query[T]) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.generation++
	q.hasValue = false
	var zero T
	q.value = zero
}

// StartPolling refetches every PollEvery until the returned stop
// function is called or ctx ends. Disabled polls are skipped, not
// rescheduled. No-op when PollEvery is zero.
func (q *Query[T]) StartPolling(ctx context.Context) (stop func()) {
	if q.cfg.PollEvery <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(q.cfg.PollEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if !q.cfg.enabled() {
					continue
				}
				observability.RecordQueryRefetch(ctx, q.cfg.Key, "poll")
				_, _ = q.refetch(ctx)
			}
		}
	}()
	return func() { once.Do(func() { close(done) }) }
}
