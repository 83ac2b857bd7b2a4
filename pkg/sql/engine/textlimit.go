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

	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/sql/execctx"
)

// TextLimit groups its child's rows by entityColumns and keeps, per
// group, only rows whose textRecordColumn value is among the top limit
// distinct values, ranked by scoreColumns (descending, ties broken by
// input order). It does not limit total row count: every row sharing
// an (entities, text) pair with a kept value passes through, including
// duplicates.
type TextLimit struct {
	base
	child            Operation
	limit            int
	entityColumns    []int
	textRecordColumn int
	scoreColumns     []int
}

// NewTextLimit creates a TextLimit over child.
func NewTextLimit(ectx *execctx.QueryExecutionContext, child Operation, limit int, entityColumns []int, textRecordColumn int, scoreColumns []int) *TextLimit {
	return &TextLimit{
		base:             base{ctx: ectx, vars: child.VariableColumns()},
		child:            child,
		limit:            limit,
		entityColumns:    entityColumns,
		textRecordColumn: textRecordColumn,
		scoreColumns:     scoreColumns,
	}
}

type textGroupKey string

func groupKeyOf(table *coldata.IdTable, row int, cols []int) textGroupKey {
	s := ""
	for _, c := range cols {
		s += fmt.Sprintf("%d|", table.At(row, c))
	}
	return textGroupKey(s)
}

type textCandidate struct {
	text       coldata.Id
	scoreRow   int // a representative row used to read scoreColumns
	firstIndex int
}

func (t *TextLimit) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
	childResult, err := t.child.ComputeResult(ctx, allowLazy)
	if err != nil {
		return nil, err
	}
	table := childResult.Table
	n := table.NumRows()

	type groupState struct {
		candidates map[coldata.Id]*textCandidate
		order      []coldata.Id
	}
	groups := make(map[textGroupKey]*groupState)

	for r := 0; r < n; r++ {
		if r%2048 == 0 {
			if err := t.ctx.ThrowIfCancelled(); err != nil {
				return nil, err
			}
		}
		gk := groupKeyOf(table, r, t.entityColumns)
		g, ok := groups[gk]
		if !ok {
			g = &groupState{candidates: make(map[coldata.Id]*textCandidate)}
			groups[gk] = g
		}
		text := table.At(r, t.textRecordColumn)
		if _, seen := g.candidates[text]; !seen {
			g.candidates[text] = &textCandidate{text: text, scoreRow: r, firstIndex: len(g.order)}
			g.order = append(g.order, text)
		}
	}

	kept := make(map[textGroupKey]map[coldata.Id]bool, len(groups))
	for gk, g := range groups {
		cands := make([]*textCandidate, len(g.order))
		for i, text := range g.order {
			cands[i] = g.candidates[text]
		}
		sort.SliceStable(cands, func(a, b int) bool {
			ca, cb := cands[a], cands[b]
			for _, sc := range t.scoreColumns {
				va, vb := table.At(ca.scoreRow, sc), table.At(cb.scoreRow, sc)
				if vb.Less(va) {
					return true
				}
				if va.Less(vb) {
					return false
				}
			}
			return ca.firstIndex < cb.firstIndex
		})
		limit := t.limit
		if limit > len(cands) {
			limit = len(cands)
		}
		keptTexts := make(map[coldata.Id]bool, limit)
		for i := 0; i < limit; i++ {
			keptTexts[cands[i].text] = true
		}
		kept[gk] = keptTexts
	}

	out := coldata.NewIdTableWithColumns(table.NumColumns(), t.ctx.Allocator)
	for r := 0; r < n; r++ {
		gk := groupKeyOf(table, r, t.entityColumns)
		text := table.At(r, t.textRecordColumn)
		if !kept[gk][text] {
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

func (t *TextLimit) CacheKey() string {
	params := fmt.Sprintf("limit=%d,entities=%s,text=%d,scores=%s", t.limit, formatInts(t.entityColumns), t.textRecordColumn, formatInts(t.scoreColumns))
	return buildCacheKey("TextLimit", params, t.child)
}

func (t *TextLimit) ResultWidth() int {
	return t.child.ResultWidth()
}

func (t *TextLimit) ResultSortedOn() []int {
	return t.child.ResultSortedOn()
}

func (t *TextLimit) Multiplicity(col int) float64 {
	return t.child.Multiplicity(col)
}

func (t *TextLimit) SizeEstimateBeforeLimit() int64 {
	return t.child.SizeEstimateBeforeLimit()
}

func (t *TextLimit) CostEstimate() int64 {
	return t.child.CostEstimate() + t.child.SizeEstimateBeforeLimit()
}

func (t *TextLimit) KnownEmptyResult() bool {
	return t.child.KnownEmptyResult()
}

func (t *TextLimit) Clone() Operation {
	cp := *t
	cp.child = t.child.Clone()
	cp.entityColumns = append([]int{}, t.entityColumns...)
	cp.scoreColumns = append([]int{}, t.scoreColumns...)
	return &cp
}

func (t *TextLimit) Children() []Operation {
	return []Operation{t.child}
}
