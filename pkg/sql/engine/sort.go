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
	"sort"

	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/sql/execctx"
)

// Sort stably reorders its child's result by sortColumns, in order.
type Sort struct {
	base
	child       Operation
	sortColumns []int
}

// NewSort creates a Sort of child by sortColumns, in priority order.
func NewSort(ectx *execctx.QueryExecutionContext, child Operation, sortColumns []int) *Sort {
	return &Sort{base: base{ctx: ectx, vars: child.VariableColumns()}, child: child, sortColumns: sortColumns}
}

func (s *Sort) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
	childResult, err := s.child.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}
	if childResult.IsSortedOn(s.sortColumns) {
		return childResult, nil
	}
	if err := s.ctx.ThrowIfCancelled(); err != nil {
		return nil, err
	}

	table := childResult.Table
	n := table.NumRows()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ra, rb := perm[a], perm[b]
		for _, c := range s.sortColumns {
			va, vb := table.At(ra, c), table.At(rb, c)
			if va.Less(vb) {
				return true
			}
			if vb.Less(va) {
				return false
			}
		}
		return false
	})

	sorted := coldata.NewIdTableWithColumns(table.NumColumns(), s.ctx.Allocator)
	for _, r := range perm {
		vals := make([]coldata.Id, table.NumColumns())
		for c := range vals {
			vals[c] = table.At(r, c)
		}
		if err := sorted.AddRow(vals...); err != nil {
			return nil, err
		}
	}
	return &coldata.Result{Table: sorted, SortedOn: s.sortColumns, LocalVocab: childResult.LocalVocab}, nil
}

func (s *Sort) CacheKey() string {
	return buildCacheKey("Sort", formatInts(s.sortColumns), s.child)
}

func (s *Sort) ResultWidth() int {
	return s.child.ResultWidth()
}

func (s *Sort) ResultSortedOn() []int {
	return s.sortColumns
}

func (s *Sort) Multiplicity(col int) float64 {
	return s.child.Multiplicity(col)
}

func (s *Sort) SizeEstimateBeforeLimit() int64 {
	return s.child.SizeEstimateBeforeLimit()
}

func (s *Sort) CostEstimate() int64 {
	n := s.child.SizeEstimateBeforeLimit()
	cost := int64(1)
	for x := n; x > 1; x /= 2 {
		cost += n
	}
	return s.child.CostEstimate() + cost
}

func (s *Sort) KnownEmptyResult() bool {
	return s.child.KnownEmptyResult()
}

func (s *Sort) Clone() Operation {
	cp := *s
	cp.child = s.child.Clone()
	cp.sortColumns = append([]int{}, s.sortColumns...)
	return &cp
}

func (s *Sort) Children() []Operation {
	return []Operation{s.child}
}
