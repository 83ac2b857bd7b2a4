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

// Minus is the SPARQL MINUS anti-join: it keeps left rows that have no
// compatible match on right's join columns, driven by the same zipper
// merge used for matching joins. Only left's columns appear in the
// result; left's row order and sortedness are preserved.
type Minus struct {
	base
	left, right Operation
	columns     []colexecjoin.ColumnPair
}

// NewMinus creates a Minus of left and right on columns.
func NewMinus(ectx *execctx.QueryExecutionContext, left, right Operation, columns []colexecjoin.ColumnPair) *Minus {
	return &Minus{base: base{ctx: ectx, vars: left.VariableColumns()}, left: left, right: right, columns: columns}
}

func (m *Minus) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
	leftResult, err := m.left.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}
	rightResult, err := m.right.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}

	leftJoinCols := make([]int, len(m.columns))
	rightJoinCols := make([]int, len(m.columns))
	for i, p := range m.columns {
		leftJoinCols[i] = p.Left
		rightJoinCols[i] = p.Right
	}
	if !leftResult.IsSortedOn(leftJoinCols) || !rightResult.IsSortedOn(rightJoinCols) {
		return nil, errors.AssertionFailedf("engine: Minus requires both children sorted on their join columns")
	}

	leftTable, rightTable := leftResult.Table, rightResult.Table
	leftCols := make([]coldata.Column, len(m.columns))
	rightCols := make([]coldata.Column, len(m.columns))
	for i, p := range m.columns {
		leftCols[i] = leftTable.GetColumn(p.Left)
		rightCols[i] = rightTable.GetColumn(p.Right)
	}

	matched := make([]bool, leftTable.NumRows())
	addRow := func(li, ri int) error {
		matched[li] = true
		return nil
	}
	if _, err := colexecjoin.ZipperJoin(leftCols, rightCols, leftTable.NumRows(), rightTable.NumRows(), addRow, m.ctx.ThrowIfCancelled); err != nil {
		return nil, err
	}

	out := coldata.NewIdTableWithColumns(leftTable.NumColumns(), m.ctx.Allocator)
	for li := 0; li < leftTable.NumRows(); li++ {
		if matched[li] {
			continue
		}
		vals := make([]coldata.Id, leftTable.NumColumns())
		for c := range vals {
			vals[c] = leftTable.At(li, c)
		}
		if err := out.AddRow(vals...); err != nil {
			return nil, err
		}
	}
	return &coldata.Result{Table: out, SortedOn: leftResult.SortedOn, LocalVocab: leftResult.LocalVocab}, nil
}

func (m *Minus) CacheKey() string {
	return buildCacheKey("Minus", columnPairsString(m.columns), m.left, m.right)
}

func (m *Minus) ResultWidth() int {
	return m.left.ResultWidth()
}

func (m *Minus) ResultSortedOn() []int {
	return m.left.ResultSortedOn()
}

func (m *Minus) Multiplicity(col int) float64 {
	return m.left.Multiplicity(col)
}

func (m *Minus) SizeEstimateBeforeLimit() int64 {
	return m.left.SizeEstimateBeforeLimit()
}

func (m *Minus) CostEstimate() int64 {
	return m.left.CostEstimate() + m.right.CostEstimate() + m.left.SizeEstimateBeforeLimit()
}

func (m *Minus) KnownEmptyResult() bool {
	return m.left.KnownEmptyResult()
}

func (m *Minus) Clone() Operation {
	cp := *m
	cp.left = m.left.Clone()
	cp.right = m.right.Clone()
	cp.columns = append([]colexecjoin.ColumnPair{}, m.columns...)
	return &cp
}

func (m *Minus) Children() []Operation {
	return []Operation{m.left, m.right}
}
