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

// Package cancel implements cooperative cancellation for a running
// query: a fast-checked handle that operators probe between rows, a
// watchdog that detects operators which stopped checking in, and a
// deadline timer that cancels a query once its time limit elapses.
package cancel

import (
	"sync/atomic"
	"time"

	"github.com/ad-freiburg/qlever-go/pkg/config"
	"github.com/ad-freiburg/qlever-go/pkg/util/metric"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// cancellations counts Cancel transitions by Reason. Nil until
// AttachMetrics is called, in which case every baseHandle.Cancel across
// the process reports to it; there is no per-Handle metrics wiring.
var cancellations *prometheus.CounterVec

// AttachMetrics registers a counter vector, labeled by reason, counting
// every cancellation that actually transitions a Handle (CompareAndSwap
// races on the same Handle only count the winner). Call once at process
// startup before any query runs.
func AttachMetrics(reg *metric.Registry) {
	cancellations = reg.NewCounterVec("cancellations_total", "Number of cancellations by reason.", "reason")
}

// Reason identifies why a Handle was cancelled.
type Reason int32

const (
	// reasonNone is the zero value: not cancelled.
	reasonNone Reason = iota
	// ReasonManual means a client explicitly requested cancellation.
	ReasonManual
	// ReasonTimeout means the query's time limit elapsed.
	ReasonTimeout
	// ReasonWatchdogStall means the watchdog found this handle hadn't
	// checked in within the configured stall threshold.
	ReasonWatchdogStall
)

func (r Reason) String() string {
	switch r {
	case ReasonManual:
		return "manual cancellation"
	case ReasonTimeout:
		return "timeout"
	case ReasonWatchdogStall:
		return "watchdog detected stall"
	default:
		return "not cancelled"
	}
}

// ErrCancelled is the sentinel every cancellation error Is()-matches;
// Cancelled.Error() includes the specific Reason.
var ErrCancelled = errors.New("cancel: operation cancelled")

// Cancelled is returned by ThrowIfCancelled once a handle has been
// cancelled.
type Cancelled struct {
	Reason Reason
}

func (c *Cancelled) Error() string {
	return errors.Wrapf(ErrCancelled, "%s", c.Reason).Error()
}

func (c *Cancelled) Unwrap() error { return ErrCancelled }

// Handle is probed by operators at well-defined suspension points
// inside long-running loops (join inner loops, batch boundaries).
// ThrowIfCancelled is the fast path: a single atomic load in the
// common, not-cancelled case.
type Handle interface {
	// ThrowIfCancelled returns a *Cancelled error once the handle has
	// been cancelled by any means (manual, timeout, or watchdog stall).
	ThrowIfCancelled() error
	// CheckIn records that the operator holding this handle is making
	// progress, resetting the watchdog's stall clock. A no-op under
	// NoWatchdog and Disabled modes.
	CheckIn()
	// Cancel transitions the handle to cancelled with reason, if it
	// isn't already cancelled. Safe to call more than once or
	// concurrently; only the first call's reason sticks.
	Cancel(reason Reason)
	// Close releases any resources (deadline timer, watchdog
	// registration) associated with the handle. Must be called exactly
	// once when the query finishes, cancelled or not.
	Close()
}

// Mode selects how much cancellation machinery a Handle runs.
type Mode int

const (
	// Enabled runs the full watchdog and deadline timer.
	Enabled Mode = iota
	// NoWatchdog runs only the deadline timer; ThrowIfCancelled still
	// observes manual cancellation and timeout, but a stalled operator
	// that never calls ThrowIfCancelled again is never force-cancelled.
	NoWatchdog
	// Disabled compiles every probe to a no-op; used for benchmarking
	// the cancellation machinery's own overhead.
	Disabled
)

// baseHandle implements the atomic state machine shared by every mode.
type baseHandle struct {
	state atomic.Int32 // Reason, starts at reasonNone
}

func (h *baseHandle) ThrowIfCancelled() error {
	if r := Reason(h.state.Load()); r != reasonNone {
		return &Cancelled{Reason: r}
	}
	return nil
}

func (h *baseHandle) Cancel(reason Reason) {
	if h.state.CompareAndSwap(int32(reasonNone), int32(reason)) && cancellations != nil {
		cancellations.WithLabelValues(reason.String()).Inc()
	}
}

func (h *baseHandle) reason() Reason {
	return Reason(h.state.Load())
}

// disabledHandle never tracks anything; every method is a no-op.
type disabledHandle struct{}

func (disabledHandle) ThrowIfCancelled() error { return nil }
func (disabledHandle) CheckIn()                {}
func (disabledHandle) Cancel(Reason)           {}
func (disabledHandle) Close()                  {}

// noWatchdogHandle runs the deadline timer but performs no stall
// detection; CheckIn is a no-op.
type noWatchdogHandle struct {
	baseHandle
	timer *deadlineTimer
}

func (h *noWatchdogHandle) CheckIn() {}

func (h *noWatchdogHandle) Close() {
	h.timer.stop()
}

// enabledHandle runs both the deadline timer and watchdog stall
// detection.
type enabledHandle struct {
	baseHandle
	timer       *deadlineTimer
	lastCheckIn atomic.Int64 // unix nanos
	watchdog    *Watchdog
}

func (h *enabledHandle) CheckIn() {
	h.lastCheckIn.Store(time.Now().UnixNano())
}

func (h *enabledHandle) Close() {
	h.timer.stop()
	h.watchdog.unregister(h)
}

// NewHandle creates a Handle in mode, arming a deadline timer that
// cancels with ReasonTimeout after timeLimit (timeLimit <= 0 disables
// the deadline). watchdog is required (and must be running) when mode
// is Enabled; it is ignored otherwise.
func NewHandle(mode Mode, timeLimit time.Duration, watchdog *Watchdog) Handle {
	switch mode {
	case Disabled:
		return disabledHandle{}
	case NoWatchdog:
		h := &noWatchdogHandle{}
		h.timer = newDeadlineTimer(timeLimit, func() { h.Cancel(ReasonTimeout) })
		return h
	default:
		h := &enabledHandle{watchdog: watchdog}
		h.lastCheckIn.Store(time.Now().UnixNano())
		h.timer = newDeadlineTimer(timeLimit, func() { h.Cancel(ReasonTimeout) })
		if watchdog != nil {
			watchdog.register(h)
		}
		return h
	}
}

// ModeFromConfig maps a config.CancelMode onto a cancel.Mode.
func ModeFromConfig(m config.CancelMode) Mode {
	switch m {
	case config.CancelNoWatchdog:
		return NoWatchdog
	case config.CancelDisabled:
		return Disabled
	default:
		return Enabled
	}
}
