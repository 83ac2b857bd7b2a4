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

// Package cache implements an in-memory cache with least-recently-used
// (LRU) and first-in-first-out (FIFO) eviction policies, driven by a
// caller-supplied ShouldEvict predicate rather than a fixed capacity.
// This is based on: https://github.com/golang/groupcache/
package cache

// Policy selects how TypedUnorderedCache reorders entries on access.
type Policy int

const (
	// CacheLRU evicts the least recently accessed entry first; Get moves
	// the accessed entry to the front.
	CacheLRU Policy = iota
	// CacheFIFO evicts the oldest-added entry first; Get never reorders.
	CacheFIFO
)

// TypedConfig configures a TypedUnorderedCache. ShouldEvict is invoked
// after every Add with the cache's current size (including the entry
// just added) and the oldest-on-current-policy key and value; returning
// true evicts that entry and ShouldEvict is invoked again. A config
// that never evicts is legal and yields an unbounded cache.
type TypedConfig[K comparable, V any] struct {
	Policy      Policy
	ShouldEvict func(size int, key K, value V) bool
}

// UnorderedCache is an interface{}-keyed cache, kept for call sites that
// predate generics or that need to store heterogeneous value types.
type UnorderedCache = TypedUnorderedCache[interface{}, interface{}]

// Config is the interface{}-keyed counterpart of TypedConfig.
type Config = TypedConfig[interface{}, interface{}]

// NewUnorderedCache creates an UnorderedCache with the given config.
func NewUnorderedCache(config Config) *UnorderedCache {
	return NewTypedUnorderedCache[interface{}, interface{}](config)
}
