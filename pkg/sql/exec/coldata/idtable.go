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

import "github.com/cockroachdb/errors"

// Column is one column of an IdTable: a plain slice of Id. Because Id
// is already the universal tagged scalar, a Column
// needs none of the teacher's per-native-type dispatch (coldata.Vec's
// Bool()/Int64()/Bytes()/... accessors) — there is exactly one backing
// representation.
type Column []Id

// IdTable is a columnar, row-addressable table of Id values. Columns
// are fixed in count at construction (via SetNumColumns, before any row
// is added) and grow in length together as rows are appended. All
// columns always have equal length; rows are addressable by a single
// contiguous index.
type IdTable struct {
	cols  []Column
	alloc *Allocator
}

// NewIdTable creates an empty IdTable backed by alloc. Call
// SetNumColumns before adding rows.
func NewIdTable(alloc *Allocator) *IdTable {
	return &IdTable{alloc: alloc}
}

// NewIdTableWithColumns creates an IdTable with numCols columns, ready
// to accept rows.
func NewIdTableWithColumns(numCols int, alloc *Allocator) *IdTable {
	t := NewIdTable(alloc)
	t.SetNumColumns(numCols)
	return t
}

// SetNumColumns fixes the column count. It may only be called before
// any row has been added; calling it afterwards is a Bug (an internal
// invariant violation, reported via panic since it
// indicates a programming error in the operator that built the table,
// not a data-dependent failure.
func (t *IdTable) SetNumColumns(n int) {
	if t.NumRows() > 0 {
		panic(errors.AssertionFailedf("coldata: SetNumColumns called after rows were added"))
	}
	t.cols = make([]Column, n)
}

// NumColumns returns the table's fixed column count.
func (t *IdTable) NumColumns() int {
	return len(t.cols)
}

// NumRows returns the table's current row count.
func (t *IdTable) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0])
}

// Empty reports whether the table has zero rows.
func (t *IdTable) Empty() bool {
	return t.NumRows() == 0
}

// At returns the value at (row, col).
func (t *IdTable) At(row, col int) Id {
	return t.cols[col][row]
}

// SetAt overwrites the value at (row, col).
func (t *IdTable) SetAt(row, col int, v Id) {
	t.cols[col][row] = v
}

// AddRow appends one row given one value per column, reserving memory
// from the table's Allocator. It returns ErrOutOfBudget if the
// per-query memory ceiling would be exceeded, in which case the row is
// not added.
func (t *IdTable) AddRow(vals ...Id) error {
	if len(vals) != len(t.cols) {
		return errors.AssertionFailedf("coldata: AddRow given %d values for a %d-column table", len(vals), len(t.cols))
	}
	if t.alloc != nil {
		if err := t.alloc.Reserve(int64(len(vals)) * IdBytes); err != nil {
			return err
		}
	}
	for i, v := range vals {
		t.cols[i] = append(t.cols[i], v)
	}
	return nil
}

// GetColumn returns column i as a plain Id slice. The slice aliases the
// table's storage (no copy); callers must not mutate it unless they own
// exclusive access to the table.
func (t *IdTable) GetColumn(i int) Column {
	return t.cols[i]
}

// AllocatorBytes returns the approximate number of bytes reserved for
// this table's current contents.
func (t *IdTable) AllocatorBytes() int64 {
	return int64(t.NumRows()) * int64(t.NumColumns()) * IdBytes
}

// IdTableView is a read-only, zero-copy view of an IdTable that
// re-labels and/or subsets its columns. The underlying table must
// outlive the view .
type IdTableView struct {
	table *IdTable
	// cols maps view-column index -> underlying table-column index.
	cols []int
}

// AsColumnSubsetView returns a read-only view exposing exactly the
// given underlying column indexes, in the given order, without copying
// any data.
func (t *IdTable) AsColumnSubsetView(cols []int) *IdTableView {
	cp := make([]int, len(cols))
	copy(cp, cols)
	return &IdTableView{table: t, cols: cp}
}

// NumColumns returns the view's column count.
func (v *IdTableView) NumColumns() int {
	return len(v.cols)
}

// NumRows returns the number of rows visible through the view (equal to
// the underlying table's row count; views never subset rows).
func (v *IdTableView) NumRows() int {
	return v.table.NumRows()
}

// At returns the value at (row, col) as seen through the view's column
// relabeling.
func (v *IdTableView) At(row, col int) Id {
	return v.table.At(row, v.cols[col])
}

// GetColumn returns view-column i, resolved to the underlying table's
// backing slice (zero-copy).
func (v *IdTableView) GetColumn(i int) Column {
	return v.table.GetColumn(v.cols[i])
}

// SetColumnSubset permutes the table's own columns in place to match
// cols, taking ownership of the reordering (unlike AsColumnSubsetView,
// which only borrows). Used by join kernels to restore the column order
// a parent operator expects after assembling a result with join columns
// first .
func (t *IdTable) SetColumnSubset(cols []int) {
	newCols := make([]Column, len(cols))
	for i, c := range cols {
		newCols[i] = t.cols[c]
	}
	t.cols = newCols
}

// Clone returns a deep copy of the table bound to alloc (which may be
// the same allocator as the source, or a different one). The copied
// rows are not reserved against alloc; only rows added to the clone
// afterwards are.
func (t *IdTable) Clone(alloc *Allocator) *IdTable {
	cp := NewIdTableWithColumns(t.NumColumns(), alloc)
	for i, col := range t.cols {
		newCol := make(Column, len(col))
		copy(newCol, col)
		cp.cols[i] = newCol
	}
	return cp
}
