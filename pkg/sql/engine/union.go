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

	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/sql/execctx"
)

// Union concatenates its children's results, column-for-column. Both
// children must already share the same result width (the planner
// aligns variable columns before constructing Union). The result's
// sort order is empty unless both children happen to agree on one,
// since concatenation alone does not interleave rows into a merged
// order.
type Union struct {
	base
	left, right Operation
}

// NewUnion creates a Union of left and right, whose result columns are
// named by vars.
func NewUnion(ectx *execctx.QueryExecutionContext, left, right Operation, vars VariableColumns) *Union {
	return &Union{base: base{ctx: ectx, vars: vars}, left: left, right: right}
}

func (u *Union) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
	leftResult, err := u.left.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}
	rightResult, err := u.right.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}

	width := leftResult.Table.NumColumns()
	out := coldata.NewIdTableWithColumns(width, u.ctx.Allocator)
	for _, src := range []*coldata.IdTable{leftResult.Table, rightResult.Table} {
		for r := 0; r < src.NumRows(); r++ {
			vals := make([]coldata.Id, width)
			for c := range vals {
				vals[c] = src.At(r, c)
			}
			if err := out.AddRow(vals...); err != nil {
				return nil, err
			}
		}
	}

	var sortedOn []int
	if u.ResultSortedOn() != nil {
		sortedOn = u.ResultSortedOn()
	}
	vocab := coldata.MergeLocalVocabs(leftResult.LocalVocab, rightResult.LocalVocab)
	return &coldata.Result{Table: out, SortedOn: sortedOn, LocalVocab: vocab}, nil
}

func (u *Union) CacheKey() string {
	return buildCacheKey("Union", "", u.left, u.right)
}

func (u *Union) ResultWidth() int {
	return u.left.ResultWidth()
}

// ResultSortedOn returns the agreeing sort prefix of both children, if
// any; nil otherwise.
func (u *Union) ResultSortedOn() []int {
	ls, rs := u.left.ResultSortedOn(), u.right.ResultSortedOn()
	n := len(ls)
	if len(rs) < n {
		n = len(rs)
	}
	for i := 0; i < n; i++ {
		if ls[i] != rs[i] {
			return ls[:i]
		}
	}
	return ls[:n]
}

func (u *Union) Multiplicity(col int) float64 {
	return (u.left.Multiplicity(col) + u.right.Multiplicity(col)) / 2
}

func (u *Union) SizeEstimateBeforeLimit() int64 {
	return u.left.SizeEstimateBeforeLimit() + u.right.SizeEstimateBeforeLimit()
}

func (u *Union) CostEstimate() int64 {
	return u.left.CostEstimate() + u.right.CostEstimate() + u.SizeEstimateBeforeLimit()
}

func (u *Union) KnownEmptyResult() bool {
	return u.left.KnownEmptyResult() && u.right.KnownEmptyResult()
}

func (u *Union) Clone() Operation {
	cp := *u
	cp.left = u.left.Clone()
	cp.right = u.right.Clone()
	return &cp
}

func (u *Union) Children() []Operation {
	return []Operation{u.left, u.right}
}
