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

	"github.com/cockroachdb/errors"

	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/colexecjoin"
	"github.com/ad-freiburg/qlever-go/pkg/sql/execctx"
)

// OptionalJoin implements SPARQL OPTIONAL: every left row appears at
// least once. Left rows with one or more matches on right are combined
// with each match, exactly like MultiColumnJoin; left rows with no
// match are emitted once, with right's non-join columns padded UNDEF.
// Unmatched rows are appended after every matched one, so the result
// carries no overall sortedness guarantee even though both inputs are
// sorted on the join columns.
type OptionalJoin struct {
	base
	left, right Operation
	columns     []colexecjoin.ColumnPair
	mapping     colexecjoin.JoinColumnMapping
}

// NewOptionalJoin creates an OptionalJoin of left (outer) and right
// (optional) on columns.
func NewOptionalJoin(ectx *execctx.QueryExecutionContext, left, right Operation, columns []colexecjoin.ColumnPair) *OptionalJoin {
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
	return &OptionalJoin{base: base{ctx: ectx, vars: vars}, left: left, right: right, columns: columns, mapping: mapping}
}

func (j *OptionalJoin) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
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
		return nil, errors.AssertionFailedf("engine: OptionalJoin requires both children sorted on their join columns")
	}

	leftTable, rightTable := leftResult.Table, rightResult.Table
	leftCols := make([]coldata.Column, len(j.columns))
	rightCols := make([]coldata.Column, len(j.columns))
	for i, p := range j.columns {
		leftCols[i] = leftTable.GetColumn(p.Left)
		rightCols[i] = rightTable.GetColumn(p.Right)
	}

	matched := make([]bool, leftTable.NumRows())
	out := coldata.NewIdTableWithColumns(j.mapping.ResultWidth(), j.ctx.Allocator)
	addRow := func(li, ri int) error {
		matched[li] = true
		vals := make([]coldata.Id, 0, j.mapping.ResultWidth())
		for _, c := range j.mapping.PermutationLeft() {
			vals = append(vals, leftTable.At(li, c))
		}
		for _, c := range j.mapping.PermutationRight() {
			vals = append(vals, rightTable.At(ri, c))
		}
		return out.AddRow(vals...)
	}
	if _, err := colexecjoin.ZipperJoin(leftCols, rightCols, leftTable.NumRows(), rightTable.NumRows(), addRow, j.ctx.ThrowIfCancelled); err != nil {
		return nil, err
	}

	rightRestWidth := len(j.mapping.PermutationRight())
	for li := 0; li < leftTable.NumRows(); li++ {
		if matched[li] {
			continue
		}
		vals := make([]coldata.Id, 0, j.mapping.ResultWidth())
		for _, c := range j.mapping.PermutationLeft() {
			vals = append(vals, leftTable.At(li, c))
		}
		for i := 0; i < rightRestWidth; i++ {
			vals = append(vals, coldata.UndefId)
		}
		if err := out.AddRow(vals...); err != nil {
			return nil, err
		}
	}

	out.SetColumnSubset(j.mapping.PermutationResult())
	vocab := coldata.MergeLocalVocabs(leftResult.LocalVocab, rightResult.LocalVocab)
	return &coldata.Result{Table: out, SortedOn: nil, LocalVocab: vocab}, nil
}

func (j *OptionalJoin) CacheKey() string {
	return buildCacheKey("OptionalJoin", columnPairsString(j.columns), j.left, j.right)
}

func columnPairsString(columns []colexecjoin.ColumnPair) string {
	pairs := make([]int, 0, len(columns)*2)
	for _, p := range columns {
		pairs = append(pairs, p.Left, p.Right)
	}
	return formatInts(pairs)
}

func (j *OptionalJoin) ResultWidth() int {
	return j.mapping.ResultWidth()
}

func (j *OptionalJoin) ResultSortedOn() []int {
	return nil
}

// Multiplicity routes col back to its originating child column through
// j.mapping, the same permutation ComputeResult uses to assemble each
// output row: result columns below left's width are left's own columns
// unchanged, the rest are right's non-join columns.
func (j *OptionalJoin) Multiplicity(col int) float64 {
	if col < j.left.ResultWidth() {
		return j.left.Multiplicity(col)
	}
	rightCol := j.mapping.PermutationRight()[col-j.left.ResultWidth()]
	return j.right.Multiplicity(rightCol)
}

func (j *OptionalJoin) SizeEstimateBeforeLimit() int64 {
	return j.left.SizeEstimateBeforeLimit() * 2
}

func (j *OptionalJoin) CostEstimate() int64 {
	return j.left.CostEstimate() + j.right.CostEstimate() + j.SizeEstimateBeforeLimit()
}

func (j *OptionalJoin) KnownEmptyResult() bool {
	return j.left.KnownEmptyResult()
}

func (j *OptionalJoin) Clone() Operation {
	cp := *j
	cp.left = j.left.Clone()
	cp.right = j.right.Clone()
	cp.columns = append([]colexecjoin.ColumnPair{}, j.columns...)
	return &cp
}

func (j *OptionalJoin) Children() []Operation {
	return []Operation{j.left, j.right}
}
