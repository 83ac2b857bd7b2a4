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
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// LocalVocab is an append-only set of string values produced mid-query
// (e.g. by BIND), shared by reference-counted handle between
// intermediate results. Ids referring to a LocalVocab entry remain
// valid as long as any Result holding the handle is alive. Appends and
// reads (Get, Len, Bytes) are all synchronized by an internal mutex.
type LocalVocab struct {
	mu      sync.Mutex
	entries []string
	index   map[string]uint64
	refs    atomic.Int64
}

// NewLocalVocab creates an empty LocalVocab with one reference.
func NewLocalVocab() *LocalVocab {
	v := &LocalVocab{index: make(map[string]uint64)}
	v.refs.Store(1)
	return v
}

// AddRef increments the reference count and returns the same handle,
// so callers can write v = v.AddRef() at a fork point.
func (v *LocalVocab) AddRef() *LocalVocab {
	v.refs.Add(1)
	return v
}

// Release decrements the reference count. Once it reaches zero the
// vocabulary's entries may be discarded by the owner (there is nothing
// further to free in this Go implementation beyond letting the slice be
// garbage collected, but Release is kept symmetric with AddRef so
// call sites read the same way as the teacher's reference-counted
// resources).
func (v *LocalVocab) Release() {
	v.refs.Add(-1)
}

// RefCount returns the current reference count, for tests.
func (v *LocalVocab) RefCount() int64 {
	return v.refs.Load()
}

// GetOrAdd returns the LocalVocabIndex Id for s, appending it if it is
// not already present.
func (v *LocalVocab) GetOrAdd(s string) Id {
	v.mu.Lock()
	defer v.mu.Unlock()
	if idx, ok := v.index[s]; ok {
		return FromLocalVocabIndex(idx)
	}
	idx := uint64(len(v.entries))
	v.entries = append(v.entries, s)
	v.index[s] = idx
	return FromLocalVocabIndex(idx)
}

// Get returns the string stored at idx.
func (v *LocalVocab) Get(idx uint64) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if idx >= uint64(len(v.entries)) {
		return "", errors.AssertionFailedf("coldata: local vocab index %d out of range (len %d)", idx, len(v.entries))
	}
	return v.entries[idx], nil
}

// Len returns the number of entries currently held.
func (v *LocalVocab) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

// Bytes returns an approximate byte footprint of the vocabulary's
// entries, used by the result cache's byte-budget accounting.
func (v *LocalVocab) Bytes() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	var n int64
	for _, s := range v.entries {
		n += int64(len(s))
	}
	return n
}

// MergeLocalVocabs returns the vocabulary that should be shared by a
// Result combining left and right, mirroring
// Result::getMergedLocalVocab: if only one side has a non-empty
// vocabulary, that one is reused; if both are non-empty and distinct, a
// new vocabulary is built containing the union of both (duplicate
// entries get their indexes canonicalized against the merged table, so
// any previously-issued Id referencing the smaller side alone is no
// longer valid — callers doing this must remap any such Ids, which the
// join kernels never need because join/filter/sort results only ever
// add rows, never re-tag existing LocalVocabIndex Ids from the losing
// side to the merged table).
func MergeLocalVocabs(left, right *LocalVocab) *LocalVocab {
	leftEmpty := left == nil || left.Len() == 0
	rightEmpty := right == nil || right.Len() == 0
	switch {
	case leftEmpty && rightEmpty:
		return NewLocalVocab()
	case leftEmpty:
		return right.AddRef()
	case rightEmpty:
		return left.AddRef()
	case left == right:
		return left.AddRef()
	default:
		merged := NewLocalVocab()
		left.mu.Lock()
		for _, s := range left.entries {
			merged.GetOrAdd(s)
		}
		left.mu.Unlock()
		right.mu.Lock()
		for _, s := range right.entries {
			merged.GetOrAdd(s)
		}
		right.mu.Unlock()
		return merged
	}
}
