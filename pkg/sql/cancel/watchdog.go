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

package cancel

import (
	"context"
	"sync"
	"time"

	"github.com/ad-freiburg/qlever-go/pkg/util/log"
)

// Watchdog periodically scans every registered enabledHandle and
// force-cancels any that haven't checked in within stallThreshold.
// There is normally exactly one Watchdog per server, shared by every
// query's Handle.
type Watchdog struct {
	stallThreshold time.Duration
	checkInterval  time.Duration
	everyN         *log.EveryN

	mu        sync.Mutex
	handles   map[*enabledHandle]struct{}
	cancelRun context.CancelFunc
	done      chan struct{}
}

// NewWatchdog creates a Watchdog; call Start to begin scanning.
func NewWatchdog(stallThreshold, checkInterval time.Duration) *Watchdog {
	return &Watchdog{
		stallThreshold: stallThreshold,
		checkInterval:  checkInterval,
		everyN:         log.Every(time.Second),
		handles:        make(map[*enabledHandle]struct{}),
	}
}

// Start launches the scanning goroutine. It returns immediately; call
// Stop to terminate the goroutine.
func (w *Watchdog) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelRun = cancel
	w.done = make(chan struct{})
	go w.run(ctx)
}

// Stop terminates the scanning goroutine and waits for it to exit.
func (w *Watchdog) Stop() {
	if w.cancelRun != nil {
		w.cancelRun()
		<-w.done
	}
}

func (w *Watchdog) run(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *Watchdog) scan(ctx context.Context) {
	now := time.Now()
	w.mu.Lock()
	stalled := make([]*enabledHandle, 0)
	for h := range w.handles {
		last := time.Unix(0, h.lastCheckIn.Load())
		if h.reason() == reasonNone && now.Sub(last) > w.stallThreshold {
			stalled = append(stalled, h)
		}
	}
	w.mu.Unlock()

	for _, h := range stalled {
		if w.everyN.ShouldLog() {
			log.Warningf(ctx, "watchdog: cancelling handle stalled for over %s", w.stallThreshold)
		}
		h.Cancel(ReasonWatchdogStall)
	}
}

func (w *Watchdog) register(h *enabledHandle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handles[h] = struct{}{}
}

func (w *Watchdog) unregister(h *enabledHandle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.handles, h)
}
