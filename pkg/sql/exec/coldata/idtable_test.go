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

package coldata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddRowAndAt(t *testing.T) {
	tbl := NewIdTableWithColumns(2, NewAllocator(0))
	require.NoError(t, tbl.AddRow(FromInt(1), FromInt(2)))
	require.NoError(t, tbl.AddRow(FromInt(3), FromInt(4)))
	require.Equal(t, 2, tbl.NumRows())
	require.Equal(t, int64(3), tbl.At(1, 0).IntValue())
}

func TestAddRowWrongArity(t *testing.T) {
	tbl := NewIdTableWithColumns(2, NewAllocator(0))
	err := tbl.AddRow(FromInt(1))
	require.Error(t, err)
}

func TestAddRowOutOfBudget(t *testing.T) {
	// Budget for exactly one 2-column row (2 * IdBytes).
	tbl := NewIdTableWithColumns(2, NewAllocator(2*IdBytes))
	require.NoError(t, tbl.AddRow(FromInt(1), FromInt(2)))
	err := tbl.AddRow(FromInt(3), FromInt(4))
	require.ErrorIs(t, err, ErrOutOfBudget)
	require.Equal(t, 1, tbl.NumRows())
}

func TestColumnSubsetViewIsZeroCopy(t *testing.T) {
	tbl := NewIdTableWithColumns(3, NewAllocator(0))
	require.NoError(t, tbl.AddRow(FromInt(1), FromInt(2), FromInt(3)))
	view := tbl.AsColumnSubsetView([]int{2, 0})
	require.Equal(t, 2, view.NumColumns())
	require.Equal(t, int64(3), view.At(0, 0).IntValue())
	require.Equal(t, int64(1), view.At(0, 1).IntValue())

	// Mutating the backing table is visible through the view (no copy).
	tbl.SetAt(0, 2, FromInt(99))
	require.Equal(t, int64(99), view.At(0, 0).IntValue())
}

func TestSetColumnSubsetPermutesOwnership(t *testing.T) {
	tbl := NewIdTableWithColumns(3, NewAllocator(0))
	require.NoError(t, tbl.AddRow(FromInt(10), FromInt(20), FromInt(30)))
	tbl.SetColumnSubset([]int{1, 2, 0})
	require.Equal(t, int64(20), tbl.At(0, 0).IntValue())
	require.Equal(t, int64(30), tbl.At(0, 1).IntValue())
	require.Equal(t, int64(10), tbl.At(0, 2).IntValue())
}

func TestCloneIsDeepCopy(t *testing.T) {
	tbl := NewIdTableWithColumns(1, NewAllocator(0))
	require.NoError(t, tbl.AddRow(FromInt(1)))
	cp := tbl.Clone(NewAllocator(0))
	tbl.SetAt(0, 0, FromInt(2))
	require.Equal(t, int64(1), cp.At(0, 0).IntValue())
}

func TestSetNumColumnsAfterRowsPanics(t *testing.T) {
	tbl := NewIdTableWithColumns(1, NewAllocator(0))
	require.NoError(t, tbl.AddRow(FromInt(1)))
	require.Panics(t, func() { tbl.SetNumColumns(2) })
}
