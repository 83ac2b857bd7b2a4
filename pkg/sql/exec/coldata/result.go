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

// Result is the value every Operation.ComputeResult produces: an
// IdTable, the ordered sequence of column indexes on which it is
// sorted, and a LocalVocab handle. The first len(SortedOn) columns of
// Table are in non-decreasing lexicographic order row-wise, with UNDEF
// sorting before any defined value.
type Result struct {
	Table      *IdTable
	SortedOn   []int
	LocalVocab *LocalVocab
}

// Bytes returns an approximate memory footprint for this result,
// combining its table and local vocabulary, used by the result cache's
// byte-budget accounting.
func (r *Result) Bytes() int64 {
	var n int64
	if r.Table != nil {
		n += r.Table.AllocatorBytes()
	}
	if r.LocalVocab != nil {
		n += r.LocalVocab.Bytes()
	}
	return n
}

// IsSortedOn reports whether r's declared sort order is at least as
// long as, and a prefix-compatible match for, cols. Used by operators
// that need a specific sort order from a child (e.g. MultiColumnJoin
// checking its children's sortedness precondition).
func (r *Result) IsSortedOn(cols []int) bool {
	if len(r.SortedOn) < len(cols) {
		return false
	}
	for i, c := range cols {
		if r.SortedOn[i] != c {
			return false
		}
	}
	return true
}
