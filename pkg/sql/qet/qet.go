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

// Package qet wraps a rooted engine.Operation tree with the plan-level
// surface the server needs on top of it: a memoized cache key, deep
// cloning for shared-subplan reuse, and the canonicalization rules
// that make equivalent commutative joins collide in the result cache
// regardless of the order their children were built in.
package qet

import (
	"context"
	"sort"

	"github.com/ad-freiburg/qlever-go/pkg/sql/engine"
	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/colexecjoin"
)

// QueryExecutionTree is a thin handle around a rooted operator tree: it
// holds the root, memoizes the (potentially expensive, recursively
// derived) cache key, and forwards result computation and variable
// bindings.
type QueryExecutionTree struct {
	root     engine.Operation
	cacheKey string
}

// New wraps root in a QueryExecutionTree. root must already reflect any
// desired child canonicalization (see CanonicalizeJoinChildren); New
// itself does not reorder anything.
func New(root engine.Operation) *QueryExecutionTree {
	return &QueryExecutionTree{root: root}
}

// Root returns the tree's root operator.
func (t *QueryExecutionTree) Root() engine.Operation {
	return t.root
}

// VariableColumns forwards to the root operator's own bindings.
func (t *QueryExecutionTree) VariableColumns() engine.VariableColumns {
	return t.root.VariableColumns()
}

// CacheKey computes and memoizes the tree's cache key. Structurally
// equivalent trees (including commutative joins canonicalized via
// CanonicalizeJoinChildren) produce identical keys.
func (t *QueryExecutionTree) CacheKey() string {
	if t.cacheKey == "" {
		t.cacheKey = t.root.CacheKey()
	}
	return t.cacheKey
}

// ComputeResult drives the root operator, which recursively drives its
// own children.
func (t *QueryExecutionTree) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
	return t.root.ComputeResult(ctx, allowLazy)
}

// Clone deep-copies the underlying operator tree. The clone's own
// memoized cache key is recomputed lazily on first use rather than
// copied, since Clone is also used to fork a tree before a caller
// mutates one copy's parameters.
func (t *QueryExecutionTree) Clone() *QueryExecutionTree {
	return New(t.root.Clone())
}

// CanonicalizeJoinChildren reorders a commutative binary join's
// children so the one with the lexicographically smaller cache key is
// always first, swapping each column pair's Left/Right to match.
// Building A⋈B and B⋈A through this function before constructing the
// join operator makes both land on the same cache key, satisfying the
// cache-canonicalization invariant for symmetric joins.
func CanonicalizeJoinChildren(
	left, right engine.Operation, columns []colexecjoin.ColumnPair,
) (engine.Operation, engine.Operation, []colexecjoin.ColumnPair) {
	if left.CacheKey() <= right.CacheKey() {
		return left, right, columns
	}
	swapped := make([]colexecjoin.ColumnPair, len(columns))
	for i, p := range columns {
		swapped[i] = colexecjoin.ColumnPair{Left: p.Right, Right: p.Left}
	}
	return right, left, swapped
}

// GetSortedSubtreesAndJoinColumns canonicalizes t1 and t2 the same way
// CanonicalizeJoinChildren does, and additionally sorts the resulting
// join-column pairs by their (canonicalized) left column index. Two
// calls describing the same join — built from either child order and
// either column order — produce identical children in identical order
// and an identical column sequence, which is what the planner needs
// before looking a candidate join plan up in its own memoization table.
func GetSortedSubtreesAndJoinColumns(
	t1, t2 engine.Operation, columns []colexecjoin.ColumnPair,
) (engine.Operation, engine.Operation, []colexecjoin.ColumnPair) {
	left, right, cols := CanonicalizeJoinChildren(t1, t2, columns)
	sorted := append([]colexecjoin.ColumnPair{}, cols...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Left < sorted[j].Left })
	return left, right, sorted
}
