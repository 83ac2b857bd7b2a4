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

package coldata

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// IdBytes is the size in bytes of a single Id, used to convert row/column
// counts into an approximate memory footprint for budget accounting.
const IdBytes = 8

// ErrOutOfBudget is returned by Allocator.Reserve when granting the
// requested bytes would exceed the per-query memory ceiling. It is
// reported to the caller and unwinds the operator stack; it is not
// fatal to the server.
var ErrOutOfBudget = errors.New("coldata: out of budget")

// Allocator mediates all IdTable growth against a per-query memory
// ceiling using atomic counters, mirroring the teacher's preference for
// lock-free bookkeeping on hot per-row paths (coldata.memColumn's null
// bitmap manipulation is similarly lock-free). Allocation that would
// exceed the budget fails with ErrOutOfBudget rather than panicking.
type Allocator struct {
	budget int64
	used   atomic.Int64
}

// NewAllocator creates an Allocator with the given byte budget. A
// budget of 0 means unlimited.
func NewAllocator(budget int64) *Allocator {
	return &Allocator{budget: budget}
}

// Reserve accounts for n additional bytes of usage, failing with
// ErrOutOfBudget if that would exceed the configured budget.
func (a *Allocator) Reserve(n int64) error {
	if a.budget <= 0 {
		a.used.Add(n)
		return nil
	}
	for {
		cur := a.used.Load()
		next := cur + n
		if next > a.budget {
			return errors.Wrapf(ErrOutOfBudget, "requested %d bytes, %d used of %d budget", n, cur, a.budget)
		}
		if a.used.CompareAndSwap(cur, next) {
			return nil
		}
	}
}

// Release gives back n bytes of previously reserved usage.
func (a *Allocator) Release(n int64) {
	a.used.Add(-n)
}

// Used returns the currently reserved byte count.
func (a *Allocator) Used() int64 {
	return a.used.Load()
}

// Budget returns the configured byte budget (0 meaning unlimited).
func (a *Allocator) Budget() int64 {
	return a.budget
}
