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

import "time"

// deadlineTimer fires fn once after d elapses, unless stop is called
// first. It is the "paired cleanup object" that cancels the scheduled
// timer when a query's computation finishes before its deadline.
type deadlineTimer struct {
	t *time.Timer
}

func newDeadlineTimer(d time.Duration, fn func()) *deadlineTimer {
	if d <= 0 {
		return &deadlineTimer{}
	}
	return &deadlineTimer{t: time.AfterFunc(d, fn)}
}

// stop cancels the pending timer, if any. Idempotent.
func (d *deadlineTimer) stop() {
	if d.t != nil {
		d.t.Stop()
	}
}
