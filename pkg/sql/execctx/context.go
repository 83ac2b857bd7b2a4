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

// Package execctx bundles the per-query resources every operator needs:
// a budgeted allocator, a handle into the shared result cache, and a
// cancellation handle. One QueryExecutionContext is created per
// incoming query and threaded through its entire operator tree.
package execctx

import (
	"time"

	"github.com/ad-freiburg/qlever-go/pkg/config"
	"github.com/ad-freiburg/qlever-go/pkg/sql/cancel"
	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/sql/querycache"
)

// QueryExecutionContext is created once per query and passed by
// reference to every operator in its tree.
type QueryExecutionContext struct {
	Allocator *coldata.Allocator
	Cache     *querycache.Cache
	Cancel    cancel.Handle
	TimeLimit time.Duration
}

// New creates a QueryExecutionContext for one query, wiring its
// allocator budget from cfg and arming a cancellation handle against
// the shared cache and watchdog.
func New(cfg config.Config, cache *querycache.Cache, watchdog *cancel.Watchdog, timeLimit time.Duration) *QueryExecutionContext {
	if timeLimit <= 0 {
		timeLimit = cfg.DefaultTimeLimit
	}
	mode := cancel.ModeFromConfig(cfg.Cancellation)
	return &QueryExecutionContext{
		Allocator: coldata.NewAllocator(cfg.QueryMemoryBudget),
		Cache:     cache,
		Cancel:    cancel.NewHandle(mode, timeLimit, watchdog),
		TimeLimit: timeLimit,
	}
}

// Close releases the cancellation handle's resources (deadline timer,
// watchdog registration). Must be called exactly once when the query
// finishes.
func (c *QueryExecutionContext) Close() {
	c.Cancel.Close()
}

// ThrowIfCancelled is a convenience forward to the context's
// cancellation handle, used throughout engine operators as the
// probe callback passed to the join kernels.
func (c *QueryExecutionContext) ThrowIfCancelled() error {
	return c.Cancel.ThrowIfCancelled()
}
