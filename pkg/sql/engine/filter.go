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

// Expression evaluates a row-wise predicate. The SPARQL expression
// compiler (arithmetic, comparison, regex, language-tag matching) is an
// external collaborator; Filter depends only on this evaluated form. An
// UNDEF operand propagates to an evaluation error, which Filter treats
// as "row excluded" per the UNDEF-is-an-error-that-excludes-the-row
// contract.
type Expression func(table *coldata.IdTable, row int) (bool, error)

// Filter keeps only the rows of its child for which predicate
// evaluates true.
type Filter struct {
	base
	child     Operation
	predicate Expression
	// label identifies the predicate in cache keys; callers are
	// responsible for giving semantically distinct predicates distinct
	// labels, since the compiled Expression closure itself carries no
	// identity a cache key could depend on.
	label string
}

// NewFilter creates a Filter of child by predicate, identified by label
// for cache-key purposes.
func NewFilter(ectx *execctx.QueryExecutionContext, child Operation, predicate Expression, label string) *Filter {
	return &Filter{base: base{ctx: ectx, vars: child.VariableColumns()}, child: child, predicate: predicate, label: label}
}

func (f *Filter) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
	childResult, err := f.child.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}
	table := childResult.Table
	out := coldata.NewIdTableWithColumns(table.NumColumns(), f.ctx.Allocator)
	for r := 0; r < table.NumRows(); r++ {
		if r%2048 == 0 {
			if err := f.ctx.ThrowIfCancelled(); err != nil {
				return nil, err
			}
		}
		keep, err := f.predicate(table, r)
		if err != nil || !keep {
			continue
		}
		vals := make([]coldata.Id, table.NumColumns())
		for c := range vals {
			vals[c] = table.At(r, c)
		}
		if err := out.AddRow(vals...); err != nil {
			return nil, err
		}
	}
	return &coldata.Result{Table: out, SortedOn: childResult.SortedOn, LocalVocab: childResult.LocalVocab}, nil
}

func (f *Filter) CacheKey() string {
	return buildCacheKey("Filter", f.label, f.child)
}

func (f *Filter) ResultWidth() int {
	return f.child.ResultWidth()
}

func (f *Filter) ResultSortedOn() []int {
	return f.child.ResultSortedOn()
}

func (f *Filter) Multiplicity(col int) float64 {
	return f.child.Multiplicity(col)
}

// SizeEstimateBeforeLimit guesses half the child's rows survive,
// matching the teacher's general "no selectivity statistics available"
// fallback of a constant factor rather than a fabricated precise model.
func (f *Filter) SizeEstimateBeforeLimit() int64 {
	size := f.child.SizeEstimateBeforeLimit() / 2
	if size < 1 {
		size = 1
	}
	return size
}

func (f *Filter) CostEstimate() int64 {
	return f.child.CostEstimate() + f.child.SizeEstimateBeforeLimit()
}

func (f *Filter) KnownEmptyResult() bool {
	return f.child.KnownEmptyResult()
}

func (f *Filter) Clone() Operation {
	cp := *f
	cp.child = f.child.Clone()
	return &cp
}

func (f *Filter) Children() []Operation {
	return []Operation{f.child}
}
