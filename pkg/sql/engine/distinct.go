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
	"github.com/ad-freiburg/qlever-go/pkg/sql/execctx"
)

// Distinct removes adjacent duplicate rows (by distinctColumns) from
// its child's result. The child must already be sorted on a prefix
// that covers distinctColumns, so that duplicates are adjacent.
type Distinct struct {
	base
	child           Operation
	distinctColumns []int
}

// NewDistinct creates a Distinct over child, deduplicating by
// distinctColumns.
func NewDistinct(ectx *execctx.QueryExecutionContext, child Operation, distinctColumns []int) *Distinct {
	return &Distinct{base: base{ctx: ectx, vars: child.VariableColumns()}, child: child, distinctColumns: distinctColumns}
}

func (d *Distinct) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
	childResult, err := d.child.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}
	if !childResult.IsSortedOn(d.distinctColumns) {
		return nil, errors.AssertionFailedf("engine: Distinct requires its child sorted on %v, got %v", d.distinctColumns, childResult.SortedOn)
	}

	table := childResult.Table
	n := table.NumRows()
	out := coldata.NewIdTableWithColumns(table.NumColumns(), d.ctx.Allocator)
	var prevRow int
	havePrev := false
	for r := 0; r < n; r++ {
		if r%2048 == 0 {
			if err := d.ctx.ThrowIfCancelled(); err != nil {
				return nil, err
			}
		}
		if havePrev && sameOnColumns(table, prevRow, r, d.distinctColumns) {
			continue
		}
		vals := make([]coldata.Id, table.NumColumns())
		for c := range vals {
			vals[c] = table.At(r, c)
		}
		if err := out.AddRow(vals...); err != nil {
			return nil, err
		}
		prevRow, havePrev = r, true
	}
	return &coldata.Result{Table: out, SortedOn: childResult.SortedOn, LocalVocab: childResult.LocalVocab}, nil
}

func sameOnColumns(t *coldata.IdTable, a, b int, cols []int) bool {
	for _, c := range cols {
		if t.At(a, c) != t.At(b, c) {
			return false
		}
	}
	return true
}

func (d *Distinct) CacheKey() string {
	return buildCacheKey("Distinct", formatInts(d.distinctColumns), d.child)
}

func (d *Distinct) ResultWidth() int {
	return d.child.ResultWidth()
}

func (d *Distinct) ResultSortedOn() []int {
	return d.child.ResultSortedOn()
}

func (d *Distinct) Multiplicity(col int) float64 {
	return 1
}

func (d *Distinct) SizeEstimateBeforeLimit() int64 {
	return d.child.SizeEstimateBeforeLimit()
}

func (d *Distinct) CostEstimate() int64 {
	return d.child.CostEstimate() + d.child.SizeEstimateBeforeLimit()
}

func (d *Distinct) KnownEmptyResult() bool {
	return d.child.KnownEmptyResult()
}

func (d *Distinct) Clone() Operation {
	cp := *d
	cp.child = d.child.Clone()
	cp.distinctColumns = append([]int{}, d.distinctColumns...)
	return &cp
}

func (d *Distinct) Children() []Operation {
	return []Operation{d.child}
}
