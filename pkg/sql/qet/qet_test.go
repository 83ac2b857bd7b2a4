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

package qet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ad-freiburg/qlever-go/pkg/sql/engine"
	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/colexecjoin"
)

// fakeLeaf is a minimal engine.Operation stand-in, identified only by a
// label used as its cache key, for exercising qet's canonicalization and
// memoization logic without a real operator tree.
type fakeLeaf struct {
	label string
}

func (f *fakeLeaf) ComputeResult(context.Context, bool) (*coldata.Result, error) { return nil, nil }
func (f *fakeLeaf) CacheKey() string                                            { return f.label }
func (f *fakeLeaf) ResultWidth() int                                            { return 1 }
func (f *fakeLeaf) ResultSortedOn() []int                                       { return []int{0} }
func (f *fakeLeaf) Multiplicity(int) float64                                    { return 1 }
func (f *fakeLeaf) SizeEstimateBeforeLimit() int64                              { return 1 }
func (f *fakeLeaf) CostEstimate() int64                                         { return 1 }
func (f *fakeLeaf) VariableColumns() engine.VariableColumns                     { return engine.VariableColumns{"a": 0} }
func (f *fakeLeaf) KnownEmptyResult() bool                                      { return false }
func (f *fakeLeaf) Clone() engine.Operation                                     { cp := *f; return &cp }
func (f *fakeLeaf) Children() []engine.Operation                                { return nil }

func TestCanonicalizeJoinChildrenOrdersByCacheKey(t *testing.T) {
	a := &fakeLeaf{label: "A"}
	b := &fakeLeaf{label: "B"}
	columns := []colexecjoin.ColumnPair{{Left: 0, Right: 1}}

	l1, r1, c1 := CanonicalizeJoinChildren(a, b, columns)
	require.Same(t, a, l1)
	require.Same(t, b, r1)
	require.Equal(t, columns, c1)

	l2, r2, c2 := CanonicalizeJoinChildren(b, a, columns)
	require.Same(t, a, l2)
	require.Same(t, b, r2)
	require.Equal(t, []colexecjoin.ColumnPair{{Left: 1, Right: 0}}, c2)
}

func TestCanonicalizeJoinChildrenIsStableUnderSwap(t *testing.T) {
	a := &fakeLeaf{label: "A"}
	b := &fakeLeaf{label: "B"}
	columns := []colexecjoin.ColumnPair{{Left: 2, Right: 3}}

	l1, r1, c1 := CanonicalizeJoinChildren(a, b, columns)
	// The same join written from b's side: b's column 3 joins a's column 2.
	l2, r2, c2 := CanonicalizeJoinChildren(b, a, []colexecjoin.ColumnPair{{Left: 3, Right: 2}})
	require.Equal(t, l1.CacheKey(), l2.CacheKey())
	require.Equal(t, r1.CacheKey(), r2.CacheKey())
	require.Equal(t, c1, c2)
}

func TestGetSortedSubtreesAndJoinColumnsSortsColumnPairs(t *testing.T) {
	a := &fakeLeaf{label: "A"}
	b := &fakeLeaf{label: "B"}
	columns := []colexecjoin.ColumnPair{{Left: 5, Right: 1}, {Left: 2, Right: 4}}

	left, right, sorted := GetSortedSubtreesAndJoinColumns(a, b, columns)
	require.Same(t, a, left)
	require.Same(t, b, right)
	require.Equal(t, []colexecjoin.ColumnPair{{Left: 2, Right: 4}, {Left: 5, Right: 1}}, sorted)
}

func TestCacheKeyIsMemoized(t *testing.T) {
	leaf := &fakeLeaf{label: "A"}
	tree := New(leaf)
	require.Equal(t, "A", tree.CacheKey())

	leaf.label = "changed"
	require.Equal(t, "A", tree.CacheKey(), "CacheKey must stay memoized after the first computation")
}

func TestCloneProducesIndependentTree(t *testing.T) {
	leaf := &fakeLeaf{label: "A"}
	tree := New(leaf)
	clone := tree.Clone()

	require.NotSame(t, tree.Root(), clone.Root())
	require.Equal(t, tree.CacheKey(), clone.CacheKey())
}

func TestVariableColumnsForwardsToRoot(t *testing.T) {
	leaf := &fakeLeaf{label: "A"}
	tree := New(leaf)
	require.Equal(t, engine.VariableColumns{"a": 0}, tree.VariableColumns())
}
