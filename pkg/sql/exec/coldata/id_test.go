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
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUndefSortsFirst(t *testing.T) {
	ids := []Id{FromInt(-5), UndefId, FromInt(5), FromVocabIndex(0)}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	require.True(t, ids[0].IsUndefined())
}

func TestIntRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 12345, -12345} {
		id := FromInt(v)
		require.Equal(t, Int, id.Tag())
		require.Equal(t, v, id.IntValue())
	}
}

func TestIntOrdering(t *testing.T) {
	require.True(t, FromInt(-5).Less(FromInt(5)))
	require.True(t, FromInt(5).Less(FromInt(6)))
	require.False(t, FromInt(6).Less(FromInt(5)))
}

func TestBoolRoundTrip(t *testing.T) {
	require.True(t, FromBool(true).BoolValue())
	require.False(t, FromBool(false).BoolValue())
}

func TestDoubleOrderingAcrossSign(t *testing.T) {
	neg := FromDouble(-3.5)
	zero := FromDouble(0)
	pos := FromDouble(3.5)
	require.True(t, neg.Less(zero))
	require.True(t, zero.Less(pos))
	require.True(t, neg.Less(pos))
}

func TestCompare(t *testing.T) {
	require.Equal(t, 0, FromInt(3).Compare(FromInt(3)))
	require.Equal(t, -1, UndefId.Compare(FromInt(3)))
	require.Equal(t, 1, FromInt(3).Compare(UndefId))
}

func TestUndefinedIsZeroValue(t *testing.T) {
	var id Id
	require.True(t, id.IsUndefined())
	require.Equal(t, Undefined, id.Tag())
}
