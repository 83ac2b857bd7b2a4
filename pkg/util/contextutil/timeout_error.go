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

package contextutil

import (
	"fmt"
	"time"
)

// TimeoutError is returned by RunWithTimeout when the wrapped function's
// context deadline is exceeded. It implements net.Error-style Timeout()
// so callers that only check for a timeout (rather than the specific
// error value) keep working.
type TimeoutError struct {
	operation string
	duration  time.Duration
	cause     error
}

// NewTimeoutError constructs a TimeoutError for the named operation.
func NewTimeoutError(operation string, duration time.Duration, cause error) *TimeoutError {
	return &TimeoutError{operation: operation, duration: duration, cause: cause}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.operation, e.duration)
}

// Unwrap exposes the underlying context error for errors.Is/errors.As.
func (e *TimeoutError) Unwrap() error { return e.cause }

// Timeout implements the net.Error-style interface some callers probe for.
func (e *TimeoutError) Timeout() bool { return true }

// Temporary implements the net.Error-style interface some callers probe for.
func (e *TimeoutError) Temporary() bool { return true }
