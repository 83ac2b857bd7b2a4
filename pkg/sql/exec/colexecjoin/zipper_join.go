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

package colexecjoin

import (
	"sort"

	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
)

// cancelProbeInterval bounds how many emitted row pairs pass between
// calls to the caller's cancellation probe.
const cancelProbeInterval = 2048

// AddRowFunc combines row li of the left input with row ri of the right
// input. It is called once per matched pair; see ZipperJoin for the
// order of the calls.
type AddRowFunc func(li, ri int) error

// ZipperJoin performs a sorted-merge join between leftCols and
// rightCols, two equal-length slices of columns holding the join keys
// for the left and right input respectively (leftCols[c] and
// rightCols[c] are the c-th join condition's values). Both sides must
// already be sorted lexicographically on their join columns, with UNDEF
// ordered before any defined value . An UNDEF value matches
// every value on the opposite side, including another UNDEF.
//
// addRow is invoked once per matching (left row, right row) pair;
// probe is invoked periodically and, if it returns a non-nil error,
// aborts the join early with that error. Emission follows left-key
// order except where the right input has UNDEF join values: left rows
// matched against a right-side UNDEF block are emitted before the same
// left rows' defined-value matches, so the left key can step back.
// numOutOfOrder counts the left rows whose key is smaller than that of
// the left row emitted before them; a non-zero count means the output
// is not in left-key order.
func ZipperJoin(
	leftCols, rightCols []coldata.Column,
	leftLen, rightLen int,
	addRow AddRowFunc,
	probe func() error,
) (numOutOfOrder int, err error) {
	k := len(leftCols)
	undefAware := !isCheap(leftCols, rightCols, leftLen, rightLen)

	m := &merger{
		leftCols:   leftCols,
		rightCols:  rightCols,
		k:          k,
		undefAware: undefAware,
		addRow:     addRow,
		probe:      probe,
	}
	err = m.level(0, leftLen, 0, rightLen, 0)
	return m.numOutOfOrder, err
}

// isCheap reports whether neither side has an UNDEF value in any join
// column, in which case the merge never needs the UNDEF-matches-
// anything widening and degenerates to a plain equi-merge.
func isCheap(leftCols, rightCols []coldata.Column, leftLen, rightLen int) bool {
	for _, col := range leftCols {
		for i := 0; i < leftLen; i++ {
			if col[i].IsUndefined() {
				return false
			}
		}
	}
	for _, col := range rightCols {
		for i := 0; i < rightLen; i++ {
			if col[i].IsUndefined() {
				return false
			}
		}
	}
	return true
}

type merger struct {
	leftCols, rightCols []coldata.Column
	k                   int
	undefAware          bool
	addRow              AddRowFunc
	probe               func() error

	emitted       int
	numOutOfOrder int
	havePrevKey   bool
	prevKey       []coldata.Id
}

// level matches rows in left[lLo:lHi) against right[rLo:rHi) on join
// column col onward, given that every row in these ranges has already
// been established (by the caller, across columns 0..col-1) as
// compatible with its counterpart range.
func (m *merger) level(lLo, lHi, rLo, rHi, col int) error {
	if lLo >= lHi || rLo >= rHi {
		return nil
	}
	if col == m.k {
		return m.emitCartesian(lLo, lHi, rLo, rHi)
	}

	leftCol := m.leftCols[col]
	rightCol := m.rightCols[col]

	lUndefEnd, rUndefEnd := lLo, rLo
	if m.undefAware {
		lUndefEnd = undefPrefixEnd(leftCol, lLo, lHi)
		rUndefEnd = undefPrefixEnd(rightCol, rLo, rHi)
		if lUndefEnd > lLo {
			// Every left row with UNDEF in this column matches every row
			// on the right, regardless of its value in this column.
			if err := m.level(lLo, lUndefEnd, rLo, rHi, col+1); err != nil {
				return err
			}
		}
		if rUndefEnd > rLo {
			// Symmetric case, restricted to left's non-UNDEF rows to avoid
			// re-matching the UNDEF/UNDEF pairs already covered above.
			if err := m.level(lUndefEnd, lHi, rLo, rUndefEnd, col+1); err != nil {
				return err
			}
		}
	}

	// Standard equi-merge over the remaining, defined-valued rows.
	i, j := lUndefEnd, rUndefEnd
	for i < lHi && j < rHi {
		lv, rv := leftCol[i], rightCol[j]
		switch {
		case lv.Less(rv):
			i++
		case rv.Less(lv):
			j++
		default:
			liEnd := groupEnd(leftCol, i, lHi, lv)
			rjEnd := groupEnd(rightCol, j, rHi, rv)
			if err := m.level(i, liEnd, j, rjEnd, col+1); err != nil {
				return err
			}
			i, j = liEnd, rjEnd
		}
	}
	return nil
}

// emitCartesian writes every (li, ri) pair in the given ranges, in
// left-row-major order, checking for out-of-order keys and probing for
// cancellation periodically.
func (m *merger) emitCartesian(lLo, lHi, rLo, rHi int) error {
	for li := lLo; li < lHi; li++ {
		if m.k > 0 {
			key := make([]coldata.Id, m.k)
			for c := 0; c < m.k; c++ {
				key[c] = m.leftCols[c][li]
			}
			if m.havePrevKey && lessKey(key, m.prevKey) {
				m.numOutOfOrder++
			}
			m.prevKey = key
			m.havePrevKey = true
		}
		for ri := rLo; ri < rHi; ri++ {
			if err := m.addRow(li, ri); err != nil {
				return err
			}
			m.emitted++
			if m.probe != nil && m.emitted%cancelProbeInterval == 0 {
				if err := m.probe(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func lessKey(a, b []coldata.Id) bool {
	for i := range a {
		if a[i].Less(b[i]) {
			return true
		}
		if b[i].Less(a[i]) {
			return false
		}
	}
	return false
}

// undefPrefixEnd returns the end of the contiguous run, starting at lo,
// of rows whose value in col is UNDEF. col[lo:hi] must be sorted
// ascending.
func undefPrefixEnd(col coldata.Column, lo, hi int) int {
	return lo + sort.Search(hi-lo, func(i int) bool {
		return !col[lo+i].IsUndefined()
	})
}

// groupEnd returns the end of the contiguous run, starting at lo, of
// rows equal to val. col[lo:hi] must be sorted ascending.
func groupEnd(col coldata.Column, lo, hi int, val coldata.Id) int {
	return lo + sort.Search(hi-lo, func(i int) bool {
		return val.Less(col[lo+i])
	})
}
