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

	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
	"github.com/ad-freiburg/qlever-go/pkg/sql/execctx"
)

// Permutation names one of the six SPO orderings (or the graph-aware
// variants) the external index maintains a sorted scan over.
type Permutation string

const (
	PSO Permutation = "PSO"
	POS Permutation = "POS"
	SPO Permutation = "SPO"
	SOP Permutation = "SOP"
	OPS Permutation = "OPS"
	OSP Permutation = "OSP"
)

// PermutationScanner is the external index's contract: given a
// permutation and a fixed prefix of Ids, return the sorted IdTable of
// the remaining (non-fixed) positions. It is implemented outside this
// module; Scan only depends on this interface.
type PermutationScanner interface {
	Scan(ctx context.Context, perm Permutation, fixedPrefix []coldata.Id) (*coldata.IdTable, error)
	EstimateSize(perm Permutation, fixedPrefix []coldata.Id) int64
}

// Scan is a leaf operator reading one permutation of the external
// index, already sorted on its non-fixed columns in permutation order.
type Scan struct {
	base
	scanner     PermutationScanner
	perm        Permutation
	fixedPrefix []coldata.Id
	sortedOn    []int
}

// NewScan creates a Scan over perm with fixedPrefix bound, whose result
// columns (in order) are named by vars.
func NewScan(ectx *execctx.QueryExecutionContext, scanner PermutationScanner, perm Permutation, fixedPrefix []coldata.Id, vars VariableColumns) *Scan {
	sortedOn := make([]int, len(vars))
	for i := range sortedOn {
		sortedOn[i] = i
	}
	return &Scan{
		base:        base{ctx: ectx, vars: vars},
		scanner:     scanner,
		perm:        perm,
		fixedPrefix: fixedPrefix,
		sortedOn:    sortedOn,
	}
}

func (s *Scan) ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error) {
	if err := s.ctx.ThrowIfCancelled(); err != nil {
		return nil, err
	}
	table, err := s.scanner.Scan(ctx, s.perm, s.fixedPrefix)
	if err != nil {
		return nil, err
	}
	return &coldata.Result{Table: table, SortedOn: s.sortedOn, LocalVocab: coldata.NewLocalVocab()}, nil
}

func (s *Scan) CacheKey() string {
	return buildCacheKey("Scan", fmt.Sprintf("%s,%v", s.perm, s.fixedPrefix))
}

func (s *Scan) ResultWidth() int {
	return len(s.vars)
}

func (s *Scan) ResultSortedOn() []int {
	return s.sortedOn
}

func (s *Scan) Multiplicity(int) float64 {
	return 1
}

func (s *Scan) SizeEstimateBeforeLimit() int64 {
	return s.scanner.EstimateSize(s.perm, s.fixedPrefix)
}

func (s *Scan) CostEstimate() int64 {
	return s.SizeEstimateBeforeLimit()
}

func (s *Scan) KnownEmptyResult() bool {
	return false
}

func (s *Scan) Clone() Operation {
	cp := *s
	cp.fixedPrefix = append([]coldata.Id{}, s.fixedPrefix...)
	return &cp
}

func (s *Scan) Children() []Operation {
	return nil
}
