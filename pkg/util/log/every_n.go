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

package log

import (
	"sync"
	"time"
)

// EveryN provides a way to rate limit spammy log messages. It tracks how
// recently a given line has been emitted so that it can determine whether
// it's worth emitting again. Used by the cancellation watchdog (which
// would otherwise warn on every stall-detection tick).
type EveryN struct {
	mu   sync.Mutex
	n    time.Duration
	last time.Time
}

// Every is a convenience constructor for an EveryN object that allows a
// log message every n duration.
func Every(n time.Duration) *EveryN {
	return &EveryN{n: n}
}

// ShouldLog returns whether it's been more than N time since the last event
// that returned true.
func (e *EveryN) ShouldLog() bool {
	if V(2) {
		// Always log when high verbosity is desired.
		return true
	}
	now := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.last.IsZero() && now.Sub(e.last) < e.n {
		return false
	}
	e.last = now
	return true
}
