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

// Package engine implements the physical operator contract and the
// concrete operators that make up a query's physical plan: Scan, Sort,
// Distinct, Filter, Union, Join, MultiColumnJoin, OptionalJoin, Minus,
// and TextLimit. Every operator satisfies Operation, which is consumed
// by the query execution tree (package qet) and the scheduler.
package engine

import (
	"context"

	"github.com/ad-freiburg/qlever-go/pkg/sql/exec/coldata"
)

// VariableColumns maps a SPARQL variable name to the column index that
// holds its bindings in an operator's result.
type VariableColumns map[string]int

// Operation is the contract every physical operator satisfies. The
// planner and executor consume operators exclusively through this
// interface; no operator-specific type is visible above this package.
type Operation interface {
	// ComputeResult produces this operator's result table. allowLazy is
	// accepted for interface compatibility with a future streaming
	// executor; every operator in this module computes eagerly
	// regardless of its value.
	ComputeResult(ctx context.Context, allowLazy bool) (*coldata.Result, error)

	// CacheKey returns a string that is equal for two operators if and
	// only if they are known to produce byte-identical results: it is a
	// pure function of the operator's kind, its own parameters, and its
	// children's cache keys.
	CacheKey() string

	// ResultWidth is the number of columns ComputeResult's table has.
	ResultWidth() int

	// ResultSortedOn is the ordered sequence of column indexes the
	// result is lexicographically sorted on, shortest prefix first; nil
	// if the result carries no sortedness guarantee.
	ResultSortedOn() []int

	// Multiplicity estimates the expected number of result rows per
	// distinct value in column col.
	Multiplicity(col int) float64

	// SizeEstimateBeforeLimit estimates the row count ComputeResult will
	// produce, ignoring any outer LIMIT.
	SizeEstimateBeforeLimit() int64

	// CostEstimate estimates this operator's cost in abstract units,
	// composed additively over the plan tree.
	CostEstimate() int64

	// VariableColumns maps every bound SPARQL variable to its column
	// index in the result.
	VariableColumns() VariableColumns

	// KnownEmptyResult reports whether the operator can determine,
	// without computing, that its result has zero rows.
	KnownEmptyResult() bool

	// Clone returns a deep copy of this operator and its subtree.
	Clone() Operation

	// Children returns the operator's direct inputs, in evaluation
	// order; empty for leaves (Scan).
	Children() []Operation
}
