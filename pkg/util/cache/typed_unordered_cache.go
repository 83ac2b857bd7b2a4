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

package cache

import (
	"container/list"
	"sync"
)

type typedEntry[K comparable, V any] struct {
	key   K
	value V
}

// TypedUnorderedCache is a map-backed cache ordered by a doubly linked
// list for O(1) LRU/FIFO bookkeeping. It carries no fixed capacity of
// its own; every mutation that can grow the cache re-checks
// config.ShouldEvict against the current front-to-back order and keeps
// evicting the tail entry until the predicate returns false.
type TypedUnorderedCache[K comparable, V any] struct {
	config TypedConfig[K, V]

	mu    sync.Mutex
	ll    *list.List
	elems map[K]*list.Element
}

// NewTypedUnorderedCache creates an empty cache with the given config.
func NewTypedUnorderedCache[K comparable, V any](config TypedConfig[K, V]) *TypedUnorderedCache[K, V] {
	return &TypedUnorderedCache[K, V]{
		config: config,
		ll:     list.New(),
		elems:  make(map[K]*list.Element),
	}
}

// Add inserts or overwrites key's value, then evicts while ShouldEvict
// says to.
func (c *TypedUnorderedCache[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.elems[key]; ok {
		c.ll.MoveToFront(e)
		e.Value.(*typedEntry[K, V]).value = value
	} else {
		e := c.ll.PushFront(&typedEntry[K, V]{key: key, value: value})
		c.elems[key] = e
	}
	c.evictLocked()
}

// Get returns key's value and moves it to the front under CacheLRU; the
// access never reorders the list under CacheFIFO.
func (c *TypedUnorderedCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.elems[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.config.Policy == CacheLRU {
		c.ll.MoveToFront(e)
	}
	return e.Value.(*typedEntry[K, V]).value, true
}

// Del removes key, if present.
func (c *TypedUnorderedCache[K, V]) Del(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.elems[key]; ok {
		c.ll.Remove(e)
		delete(c.elems, key)
	}
}

// Clear empties the cache.
func (c *TypedUnorderedCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.elems = make(map[K]*list.Element)
}

// Len returns the number of entries currently held.
func (c *TypedUnorderedCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// evictLocked repeatedly asks ShouldEvict about the back-of-list
// (least-recently-used or oldest-added, depending on Policy) entry and
// removes it while the predicate holds. Must be called with mu held.
func (c *TypedUnorderedCache[K, V]) evictLocked() {
	if c.config.ShouldEvict == nil {
		return
	}
	for {
		back := c.ll.Back()
		if back == nil {
			return
		}
		entry := back.Value.(*typedEntry[K, V])
		if !c.config.ShouldEvict(c.ll.Len(), entry.key, entry.value) {
			return
		}
		c.ll.Remove(back)
		delete(c.elems, entry.key)
	}
}
