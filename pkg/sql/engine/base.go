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
	"fmt"
	"strings"

	"github.com/ad-freiburg/qlever-go/pkg/sql/execctx"
)

// base holds the fields every concrete operator needs: the per-query
// execution context and the variable-to-column mapping of its own
// result. Operators embed base and implement the remaining Operation
// methods themselves, mirroring TextLimit.h's constructor shape
// (execctx, child QET(s), operator-specific parameters).
type base struct {
	ctx  *execctx.QueryExecutionContext
	vars VariableColumns
}

func (b *base) VariableColumns() VariableColumns {
	return b.vars
}

// buildCacheKey composes a cache key from an operator kind tag, its own
// parameter string, and its children's cache keys, matching the
// contract that a cache key depends only on (kind, params, children's
// cache keys).
func buildCacheKey(kind, params string, children ...Operation) string {
	var sb strings.Builder
	sb.WriteString(kind)
	if params != "" {
		sb.WriteString("[")
		sb.WriteString(params)
		sb.WriteString("]")
	}
	if len(children) > 0 {
		sb.WriteString("(")
		for i, c := range children {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(c.CacheKey())
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func formatInts(cols []int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, ",")
}
