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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchdogOnlyCancelsStalledHandles(t *testing.T) {
	w := NewWatchdog(20*time.Millisecond, 5*time.Millisecond)
	w.Start(context.Background())
	defer w.Stop()

	stalled := NewHandle(Enabled, 0, w)
	defer stalled.Close()

	busy := NewHandle(Enabled, 0, w)
	defer busy.Close()

	done := make(chan struct{})
	go func() {
		deadline := time.Now().Add(100 * time.Millisecond)
		for time.Now().Before(deadline) {
			busy.CheckIn()
			time.Sleep(5 * time.Millisecond)
		}
		close(done)
	}()
	<-done

	require.Error(t, stalled.ThrowIfCancelled())
	require.NoError(t, busy.ThrowIfCancelled())
}

func TestWatchdogUnregisterOnClose(t *testing.T) {
	w := NewWatchdog(10*time.Millisecond, 5*time.Millisecond)
	w.Start(context.Background())
	defer w.Stop()

	h := NewHandle(Enabled, 0, w).(*enabledHandle)
	h.Close()

	w.mu.Lock()
	_, stillRegistered := w.handles[h]
	w.mu.Unlock()
	require.False(t, stillRegistered)
}

func TestWatchdogStopIsIdempotentWithoutStart(t *testing.T) {
	w := NewWatchdog(time.Second, time.Second)
	w.Stop()
	w.Stop()
}
