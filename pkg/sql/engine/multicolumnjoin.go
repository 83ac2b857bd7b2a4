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

package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/colexecjoin"
	"github.com/ad-freiburg/qlever-go/pkg/sql/execctx"
)

// MultiColumnJoin joins two children on one or more column pairs,
// requiring both to already be sorted on their join-column prefix in
// the same order (the planner is responsible for inserting Sort
// operators to establish this precondition). Join is the single-column
// special case, built on top of this operator.
type MultiColumnJoin struct {
	base
	left, right Operation
	columns     []colexecjoin.ColumnPair
	mapping     colexecjoin.JoinColumnMapping
}

// NewMultiColumnJoin creates a MultiColumnJoin of left and right on
// columns. Children are not swapped at this level (canonical ordering,
// if any, is applied by the query execution tree before construction).
func NewMultiColumnJoin(ectx *execctx.QueryExecutionContext, left, right Operation, columns []colexecjoin.ColumnPair) *MultiColumnJoin {
	mapping := colexecjoin.NewJoinColumnMapping(columns, left.ResultWidth(), right.ResultWidth())
	vars := make(VariableColumns, left.ResultWidth()+right.ResultWidth()-len(columns))
	for name, col := range left.VariableColumns() {
		vars[name] = col
	}
	rightJoinCol := make(map[int]bool, len(columns))
	for _, p := range columns {
		rightJoinCol[p.Right] = true
	}
	offset := left.ResultWidth()
	for name, col := range right.VariableColumns() {
		if rightJoinCol[col] {
			continue
		}
		shift := 0
		for _, p := range columns {
			if p.Right < col {
				shift++
			}
		}
		vars[name] = offset + col - shift
	}
	return &MultiColumnJoin{
		base:    base{ctx: ectx, vars: vars},
		left:    left,
		right:   right,
		columns: columns,
		mapping: mapping,
	}
}

// NewJoin creates the single-join-column special case of MultiColumnJoin.
func NewJoin(ectx *execctx.QueryExecutionContext, left, right Operation, leftCol, rightCol int) *MultiColumnJoin {
	return NewMultiColumnJoin(ectx, left, right, []colexecjoin.ColumnPair{{Left: leftCol, Right: rightCol}})
}

func (j *MultiColumnJoin) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
	leftResult, err := j.left.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}
	rightResult, err := j.right.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}

	leftJoinCols := make([]int, len(j.columns))
	rightJoinCols := make([]int, len(j.columns))
	for i, p := range j.columns {
		leftJoinCols[i] = p.Left
		rightJoinCols[i] = p.Right
	}
	if !leftResult.IsSortedOn(leftJoinCols) || !rightResult.IsSortedOn(rightJoinCols) {
		return nil, errors.AssertionFailedf("engine: MultiColumnJoin requires both children sorted on their join columns")
	}

	leftTable, rightTable := leftResult.Table, rightResult.Table
	leftCols := make([]coldata.Column, len(j.columns))
	rightCols := make([]coldata.Column, len(j.columns))
	for i, p := range j.columns {
		leftCols[i] = leftTable.GetColumn(p.Left)
		rightCols[i] = rightTable.GetColumn(p.Right)
	}

	out := coldata.NewIdTableWithColumns(j.mapping.ResultWidth(), j.ctx.Allocator)
	addRow := func(li, ri int) error {
		vals := make([]coldata.Id, 0, j.mapping.ResultWidth())
		for _, c := range j.mapping.PermutationLeft() {
			vals = append(vals, leftTable.At(li, c))
		}
		for _, c := range j.mapping.PermutationRight() {
			vals = append(vals, rightTable.At(ri, c))
		}
		return out.AddRow(vals...)
	}

	numOutOfOrder, err := colexecjoin.ZipperJoin(leftCols, rightCols, leftTable.NumRows(), rightTable.NumRows(), addRow, j.ctx.ThrowIfCancelled)
	if err != nil {
		return nil, err
	}
	out.SetColumnSubset(j.mapping.PermutationResult())
	if numOutOfOrder > 0 {
		sortTableByColumns(out, leftJoinColsAfterPermute(len(j.columns)))
	}

	vocab := coldata.MergeLocalVocabs(leftResult.LocalVocab, rightResult.LocalVocab)
	sortedOn := make([]int, len(j.columns))
	for i := range sortedOn {
		sortedOn[i] = i
	}
	return &coldata.Result{Table: out, SortedOn: sortedOn, LocalVocab: vocab}, nil
}

func leftJoinColsAfterPermute(k int) []int {
	cols := make([]int, k)
	for i := range cols {
		cols[i] = i
	}
	return cols
}

func sortTableByColumns(t *coldata.IdTable, cols []int) {
	n := t.NumRows()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ra, rb := perm[a], perm[b]
		for _, c := range cols {
			va, vb := t.At(ra, c), t.At(rb, c)
			if va.Less(vb) {
				return true
			}
			if vb.Less(va) {
				return false
			}
		}
		return false
	})
	rows := make([][]coldata.Id, n)
	for i, r := range perm {
		row := make([]coldata.Id, t.NumColumns())
		for c := range row {
			row[c] = t.At(r, c)
		}
		rows[i] = row
	}
	for r, row := range rows {
		for c, v := range row {
			t.SetAt(r, c, v)
		}
	}
}

func (j *MultiColumnJoin) CacheKey() string {
	parts := make([]string, len(j.columns))
	for i, p := range j.columns {
		parts[i] = fmt.Sprintf("%d=%d", p.Left, p.Right)
	}
	return buildCacheKey("MultiColumnJoin", fmt.Sprintf("%v", parts), j.left, j.right)
}

func (j *MultiColumnJoin) ResultWidth() int {
	return j.mapping.ResultWidth()
}

func (j *MultiColumnJoin) ResultSortedOn() []int {
	sortedOn := make([]int, len(j.columns))
	for i := range sortedOn {
		sortedOn[i] = i
	}
	return sortedOn
}

// minMultiplicities returns the minimum, over the join columns, of each
// side's per-column multiplicity: the shared building block for both
// SizeEstimateBeforeLimit and Multiplicity.
func (j *MultiColumnJoin) minMultiplicities() (minLeftMult, minRightMult float64) {
	minLeftMult = j.left.Multiplicity(j.columns[0].Left)
	minRightMult = j.right.Multiplicity(j.columns[0].Right)
	for _, p := range j.columns {
		if lm := j.left.Multiplicity(p.Left); lm < minLeftMult {
			minLeftMult = lm
		}
		if rm := j.right.Multiplicity(p.Right); rm < minRightMult {
			minRightMult = rm
		}
	}
	return minLeftMult, minRightMult
}

// Multiplicity reports the estimated multiplicity of result column col,
// following the originating engine's rule: a left-derived column keeps
// its child's multiplicity scaled by multResult/multLeft, and
// symmetrically for a right-derived column, where multResult is the
// product of the two sides' minimum join-column multiplicities. col is
// mapped back to the child's own column index through j.mapping, the
// same permutation ComputeResult uses to assemble each output row.
func (j *MultiColumnJoin) Multiplicity(col int) float64 {
	minLeftMult, minRightMult := j.minMultiplicities()
	multResult := minLeftMult * minRightMult

	if col < j.left.ResultWidth() {
		return j.left.Multiplicity(col) * (multResult / minLeftMult)
	}
	rightCol := j.mapping.PermutationRight()[col-j.left.ResultWidth()]
	return j.right.Multiplicity(rightCol) * (multResult / minRightMult)
}

// SizeEstimateBeforeLimit follows MultiColumnJoin's size-estimate rule:
// numDistinct is approximated as the minimum, over join columns, of
// (child size / multiplicity on that column); the join's multiplicity
// is approximated as the product of the minimum left and right
// multiplicities; the final estimate is their product, floored at 1.
func (j *MultiColumnJoin) SizeEstimateBeforeLimit() int64 {
	leftSize := float64(j.left.SizeEstimateBeforeLimit())
	rightSize := float64(j.right.SizeEstimateBeforeLimit())
	minLeftMult, minRightMult := j.minMultiplicities()

	numDistinct := leftSize / minLeftMult
	for _, p := range j.columns {
		lm := j.left.Multiplicity(p.Left)
		rm := j.right.Multiplicity(p.Right)
		if nd := leftSize / lm; nd < numDistinct {
			numDistinct = nd
		}
		if nd := rightSize / rm; nd < numDistinct {
			numDistinct = nd
		}
	}
	estimate := int64(numDistinct * minLeftMult * minRightMult)
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

// CostEstimate follows the documented formula: children's costs plus
// (resultSize + leftSize + rightSize) * 2 * (1 + 0.07*(k-1)), penalizing
// wider join keys.
func (j *MultiColumnJoin) CostEstimate() int64 {
	k := len(j.columns)
	resultSize := j.SizeEstimateBeforeLimit()
	leftSize := j.left.SizeEstimateBeforeLimit()
	rightSize := j.right.SizeEstimateBeforeLimit()
	penalty := 1 + 0.07*float64(k-1)
	mergeCost := float64(resultSize+leftSize+rightSize) * 2 * penalty
	return j.left.CostEstimate() + j.right.CostEstimate() + int64(mergeCost)
}

func (j *MultiColumnJoin) KnownEmptyResult() bool {
	return j.left.KnownEmptyResult() || j.right.KnownEmptyResult()
}

func (j *MultiColumnJoin) Clone() Operation {
	cp := *j
	cp.left = j.left.Clone()
	cp.right = j.right.Clone()
	cp.columns = append([]colexecjoin.ColumnPair{}, j.columns...)
	return &cp
}

func (j *MultiColumnJoin) Children() []Operation {
	return []Operation{j.left, j.right}
}
