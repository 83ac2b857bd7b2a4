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

// Package scheduler bounds how many query and update tasks run at
// once. Two pools: a resizable query pool for read-only work, and a
// single-slot update pool so writes are totally ordered. Submitting a
// task suspends the calling goroutine until a slot frees up (or ctx is
// cancelled), which is this package's stand-in for an awaitable —
// callers that want fire-and-forget semantics wrap the call in their
// own goroutine.
package scheduler

import (
	"context"

	marusama "github.com/marusama/semaphore"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"

	"github.com/ad-freiburg/qlever-go/pkg/config"
	"github.com/ad-freiburg/qlever-go/pkg/util/metric"
)

// schedulerMetrics holds the optional Prometheus instruments for a
// Scheduler. Nil until AttachMetrics is called.
type schedulerMetrics struct {
	queryRunning prometheus.Gauge
	queryQueued  prometheus.Gauge
	updateQueued prometheus.Gauge
}

// Scheduler owns the two bounded worker pools. Deadline expiry itself
// is handled per-query by package cancel's deadline timer (backed by
// time.AfterFunc); there is no separate timer-executor goroutine here,
// since Go's runtime timer wheel already is one.
type Scheduler struct {
	queryPool  marusama.Semaphore
	updatePool *semaphore.Weighted
	metrics    *schedulerMetrics
}

// New creates a Scheduler sized from cfg.NumQueryWorkers.
func New(cfg config.Config) *Scheduler {
	return &Scheduler{
		queryPool:  marusama.New(cfg.NumQueryWorkers),
		updatePool: semaphore.NewWeighted(1),
	}
}

// AttachMetrics registers this Scheduler's instruments on reg. Call once
// at process startup before any query runs.
func (s *Scheduler) AttachMetrics(reg *metric.Registry) {
	s.metrics = &schedulerMetrics{
		queryRunning: reg.NewGauge("query_workers_running", "Number of query tasks currently executing."),
		queryQueued:  reg.NewGauge("query_workers_queued", "Number of query tasks waiting for a free worker slot."),
		updateQueued: reg.NewGauge("update_tasks_queued", "Number of update tasks waiting for the update pool."),
	}
}

// Resize changes the query pool's worker count, taking effect for
// subsequently queued work without disturbing tasks already running.
func (s *Scheduler) Resize(numWorkers int) {
	s.queryPool.SetLimit(numWorkers)
}

// NumQueryWorkers returns the query pool's current configured size.
func (s *Scheduler) NumQueryWorkers() int {
	return s.queryPool.GetLimit()
}

// SubmitQuery runs task on the bounded query pool, blocking the
// calling goroutine until a worker slot is free or ctx is done.
// Cancelling ctx aborts the wait for a slot, and ctx is passed on to
// task once it runs; a cancel.Handle is not consulted here.
func SubmitQuery[T any](ctx context.Context, s *Scheduler, task func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if s.metrics != nil {
		s.metrics.queryQueued.Inc()
	}
	err := s.queryPool.Acquire(ctx, 1)
	if s.metrics != nil {
		s.metrics.queryQueued.Dec()
	}
	if err != nil {
		return zero, err
	}
	defer s.queryPool.Release(1)
	if s.metrics != nil {
		s.metrics.queryRunning.Inc()
		defer s.metrics.queryRunning.Dec()
	}
	return task(ctx)
}

// SubmitUpdate runs task on the single-worker update pool, serializing
// it with respect to every other update so DeltaTriples mutation is
// exclusive.
func SubmitUpdate[T any](ctx context.Context, s *Scheduler, task func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if s.metrics != nil {
		s.metrics.updateQueued.Inc()
	}
	err := s.updatePool.Acquire(ctx, 1)
	if s.metrics != nil {
		s.metrics.updateQueued.Dec()
	}
	if err != nil {
		return zero, err
	}
	defer s.updatePool.Release(1)
	return task(ctx)
}
