package query

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	status    Status
	data      any
	failure   *Failure
	fetchedAt time.Time
}

// Cache holds one entry per Key.
//
// Concurrent fetches of a key share a single request. Successful results
// are kept for the life of the process; failed ones are fetched again on
// the next request. Every key carries a generation: Detach bumps it and a
// response that comes back for an older generation is dropped.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	gens    map[Key]uint64
	group   singleflight.Group
	now     func() time.Time
	logger  zerolog.Logger
}

// NewCache creates an empty cache.
func NewCache(logger zerolog.Logger) *Cache {
	return &Cache{
		entries: make(map[Key]*entry),
		gens:    make(map[Key]uint64),
		now:     time.Now,
		logger:  logger.With().Str("component", "query").Logger(),
	}
}

// Detach stops an in-flight response for key from being applied, as when
// the view that asked for it goes away. The request itself keeps running.
func (c *Cache) Detach(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[key]++
	if e, ok := c.entries[key]; ok && e.status == StatusPending {
		delete(c.entries, key)
	}
}

// Reset drops every entry and detaches all in-flight requests.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		c.gens[k]++
	}
	c.entries = make(map[Key]*entry)
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) lookup(key Key) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return entry{}, false
	}
	return *e, true
}

// peek returns the cached state of key without fetching.
func peek[T any](c *Cache, key Key) Result[T] {
	e, ok := c.lookup(key)
	if !ok {
		return Result[T]{Status: StatusIdle}
	}
	return toResult[T](e)
}

// fetch returns the cached result for key, or runs fn and caches its
// outcome. fn runs detached from ctx so one caller giving up does not fail
// the request for others sharing it; ctx only bounds how long this caller
// waits. The outcome is stored by the request itself, so it lands in the
// cache even when every caller has gone.
func fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) Result[T] {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.status == StatusSuccess {
		c.mu.Unlock()
		c.logger.Debug().Str("key", key.String()).Msg("Cache hit")
		return toResult[T](*e)
	}
	gen := c.gens[key]
	c.entries[key] = &entry{status: StatusPending}
	c.mu.Unlock()

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		c.logger.Debug().Str("key", key.String()).Msg("Fetching")
		v, err := fn(fetchCtx)

		e := entry{fetchedAt: c.now()}
		if err != nil {
			e.status = StatusError
			e.failure = classify(err)
			c.logger.Debug().Str("key", key.String()).Err(err).Msg("Fetch failed")
		} else {
			e.status = StatusSuccess
			e.data = v
		}
		c.store(key, gen, e)
		return e, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return Result[T]{Status: StatusPending}
	case res = <-ch:
	}

	e, _ := res.Val.(entry)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key] != gen {
		c.logger.Debug().Str("key", key.String()).Msg("Discarding response for detached key")
		return Result[T]{Status: StatusIdle}
	}
	// A caller that joined a request started before a Detach still owns
	// the current generation.
	if cur, ok := c.entries[key]; !ok || cur.status == StatusPending {
		c.entries[key] = &e
	}
	return toResult[T](e)
}

// store records e for key unless key was detached after gen was read.
func (c *Cache) store(key Key, gen uint64, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key] != gen {
		return
	}
	c.entries[key] = &e
}

func toResult[T any](e entry) Result[T] {
	r := Result[T]{Status: e.status, Failure: e.failure, FetchedAt: e.fetchedAt}
	if v, ok := e.data.(T); ok {
		r.Data = v
	}
	return r
}
