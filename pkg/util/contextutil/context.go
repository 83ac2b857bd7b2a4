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

// Package contextutil provides helpers layered on top of context.Context,
// in particular RunWithTimeout, which runs a function with a derived
// deadline and turns a bare context.DeadlineExceeded into a descriptive
// TimeoutError.
package contextutil

import (
	"context"
	"time"
)

// RunWithTimeout runs fn with a context that has a deadline set to
// timeout from now. If fn returns because the deadline passed (fn
// observed ctx.Err() and returned a context-derived error, or returned
// after the deadline), the returned error is wrapped as a *TimeoutError.
// If fn finishes before the deadline, its error is returned unchanged.
func RunWithTimeout(
	ctx context.Context, operation string, timeout time.Duration, fn func(ctx context.Context) error,
) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := fn(ctx)
	if err != nil && ctx.Err() != nil {
		return NewTimeoutError(operation, timeout, err)
	}
	return err
}
