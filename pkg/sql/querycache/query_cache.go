// Copyright 2026 The QLever-Go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package querycache caches the Result of a query execution tree by its
// canonical cache key, with at most one producer computing a given key
// at a time: concurrent callers for the same key block on the first
// caller's producer rather than recomputing.
package querycache

import (
	"context"
	"sync"

	"github.com/ad-freiburg/qlever-go/pkg/config"
	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/util/cache"
	"github.com/ad-freiburg/qlever-go/pkg/util/log"
	"github.com/ad-freiburg/qlever-go/pkg/util/metric"
	"github.com/ad-freiburg/qlever-go/pkg/util/syncutil"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// cacheMetrics holds the optional Prometheus instruments for a Cache.
// A Cache with no metrics attached pays only a single nil check per
// operation.
type cacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	entries   prometheus.Gauge
	bytes     prometheus.Gauge
	evictions prometheus.Counter
}

// Producer computes the Result for a cache miss. It is called with the
// cache unlocked, so a slow producer never blocks unrelated keys.
type Producer func(ctx context.Context) (*coldata.Result, error)

// ErrCacheFull is returned by ComputeIfAbsent when a freshly computed,
// unpinned result cannot be made to fit the byte budget even after
// evicting every other unpinned entry (the pinned entries alone already
// consume the budget, or the result is simply larger than it).  The
// computation itself succeeded; only caching it failed, so
// ComputeIfAbsent returns the computed result together with
// ErrCacheFull, which distinguishes this from a real computation
// failure.
var ErrCacheFull = errors.New("querycache: result too large to fit cache budget")

// Statistics is a point-in-time snapshot returned by Statistics.
type Statistics struct {
	NumEntries int
	NumPinned  int
	TotalBytes int64
	NumHits    int64
	NumMisses  int64
}

// entry is the cache's unit of bookkeeping. While mustWait is true the
// result is still being computed and waiters block on waitCond, exactly
// as CockroachDB's plan hints cache lets a second caller wait on the
// first caller's in-flight fetch rather than issuing a second one.
type entry struct {
	mustWait bool
	waitCond sync.Cond
	result   *coldata.Result
	err      error
	pinned   bool
	bytes    int64
}

// Cache is a process-wide cache of query Results keyed by a caller-
// supplied cache key (normally a QueryExecutionTree's canonicalized
// key). Pinned entries are held outside the evictable LRU/byte-budget
// structure and are never evicted by Add; they leave the pinned set
// only through Unpin or Clear (ClearUnpinned leaves them untouched).
type Cache struct {
	mu struct {
		syncutil.Mutex
		evictable  *cache.TypedUnorderedCache[string, *entry]
		pinned     map[string]*entry
		totalBytes int64
		hits       int64
		misses     int64
	}
	maxElements int
	maxBytes    int64
	metrics     *cacheMetrics
}

// AttachMetrics registers this Cache's instruments on reg. Safe to call
// at most once, before the cache serves any traffic; there is no
// per-call synchronization protecting the metrics pointer itself.
func (c *Cache) AttachMetrics(reg *metric.Registry) {
	c.metrics = &cacheMetrics{
		hits:      reg.NewCounter("hits_total", "Number of cache lookups served from an existing entry."),
		misses:    reg.NewCounter("misses_total", "Number of cache lookups that required computing a new result."),
		entries:   reg.NewGauge("entries", "Current number of cache entries, pinned and evictable."),
		bytes:     reg.NewGauge("bytes", "Current approximate byte footprint of all cache entries."),
		evictions: reg.NewCounter("evictions_total", "Number of entries evicted to stay within budget."),
	}
}

// New creates a Cache bounded by cfg's CacheMaxElements and
// CacheMaxBytes.
func New(cfg config.Config) *Cache {
	c := &Cache{maxElements: cfg.CacheMaxElements, maxBytes: cfg.CacheMaxBytes}
	c.mu.pinned = make(map[string]*entry)
	c.mu.evictable = cache.NewTypedUnorderedCache[string, *entry](cache.TypedConfig[string, *entry]{
		Policy: cache.CacheLRU,
		ShouldEvict: func(size int, key string, value *entry) bool {
			evict := size > c.maxElements || c.mu.totalBytes > c.maxBytes
			if evict {
				c.mu.totalBytes -= value.bytes
				if c.metrics != nil {
					c.metrics.evictions.Inc()
				}
			}
			return evict
		},
	})
	return c
}

func (c *Cache) recordHitLocked() {
	if c.metrics != nil {
		c.metrics.hits.Inc()
	}
}

func (c *Cache) recordMissLocked() {
	if c.metrics != nil {
		c.metrics.misses.Inc()
	}
}

// refreshGaugesLocked updates the entries/bytes gauges to the cache's
// current state. Called with c.mu held, after any mutation.
func (c *Cache) refreshGaugesLocked() {
	if c.metrics == nil {
		return
	}
	c.metrics.entries.Set(float64(c.mu.evictable.Len() + len(c.mu.pinned)))
	c.metrics.bytes.Set(float64(c.mu.totalBytes))
}

// ComputeIfAbsent returns the cached Result for key, computing it with
// producer on a miss. If pin is true the entry (existing or freshly
// computed) is moved to the pinned set, exempting it from the byte and
// element budget until Unpin or Clear. A producer error is never
// cached: the next caller for the same key retries.
func (c *Cache) ComputeIfAbsent(ctx context.Context, key string, pin bool, producer Producer) (*coldata.Result, error) {
	c.mu.Lock()
	if e, ok := c.mu.pinned[key]; ok {
		c.mu.hits++
		c.recordHitLocked()
		c.mu.Unlock()
		return e.result, e.err
	}
	if e, ok := c.mu.evictable.Get(key); ok {
		if e.mustWait {
			log.VEventf(ctx, 1, "waiting for in-flight computation of cache key %s", key)
			e.waitCond.Wait()
		} else {
			c.mu.hits++
			c.recordHitLocked()
		}
		if pin && !e.pinned && e.err == nil {
			c.pinLocked(key, e)
		}
		c.mu.Unlock()
		return e.result, e.err
	}
	c.mu.misses++
	c.recordMissLocked()
	e := &entry{mustWait: true, waitCond: sync.Cond{L: &c.mu}}
	c.mu.evictable.Add(key, e)
	c.mu.Unlock()

	result, err := producer(ctx)

	c.mu.Lock()
	e.result, e.err = result, err
	if err == nil {
		e.bytes = result.Bytes()
		c.mu.totalBytes += e.bytes
	}
	e.mustWait = false
	e.waitCond.Broadcast()
	switch {
	case err != nil:
		// Don't let a failed computation poison the cache for later callers.
		c.mu.evictable.Del(key)
	case pin:
		c.pinLocked(key, e)
	default:
		// e was added to the evictable structure before its size was
		// known; re-touch it now so ShouldEvict re-checks the budget
		// against its real size, possibly evicting e itself.
		c.mu.evictable.Add(key, e)
		if _, stillCached := c.mu.evictable.Get(key); !stillCached {
			c.refreshGaugesLocked()
			c.mu.Unlock()
			return result, ErrCacheFull
		}
	}
	c.refreshGaugesLocked()
	c.mu.Unlock()
	return result, err
}

// pinLocked moves e out of the evictable structure and into the pinned
// set. Must be called with c.mu held.
func (c *Cache) pinLocked(key string, e *entry) {
	c.mu.evictable.Del(key)
	e.pinned = true
	c.mu.pinned[key] = e
}

// Unpin releases key's exemption from eviction, re-inserting it into
// the evictable structure where it is immediately subject to the usual
// budget checks.
func (c *Cache) Unpin(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.mu.pinned[key]
	if !ok {
		return
	}
	delete(c.mu.pinned, key)
	e.pinned = false
	c.mu.evictable.Add(key, e)
	c.refreshGaugesLocked()
}

// Clear removes every entry, pinned or not.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.evictable.Clear()
	c.mu.pinned = make(map[string]*entry)
	c.mu.totalBytes = 0
	c.refreshGaugesLocked()
}

// ClearUnpinned removes every non-pinned entry, leaving pinned entries
// and their contribution to TotalBytes untouched.
func (c *Cache) ClearUnpinned() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.evictable.Clear()
	var pinnedBytes int64
	for _, e := range c.mu.pinned {
		pinnedBytes += e.bytes
	}
	c.mu.totalBytes = pinnedBytes
	c.refreshGaugesLocked()
}

// Size returns the total number of entries, pinned and evictable.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.evictable.Len() + len(c.mu.pinned)
}

// Statistics returns a snapshot of the cache's current state.
func (c *Cache) Statistics() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Statistics{
		NumEntries: c.mu.evictable.Len() + len(c.mu.pinned),
		NumPinned:  len(c.mu.pinned),
		TotalBytes: c.mu.totalBytes,
		NumHits:    c.mu.hits,
		NumMisses:  c.mu.misses,
	}
}
