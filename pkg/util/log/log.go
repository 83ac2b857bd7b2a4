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

// Package log is a small structured logging façade over the standard
// library, in the style of CockroachDB's pkg/util/log: context-carried
// tags, redaction-aware formatting, and a global verbosity level that
// call sites consult before doing expensive formatting work.
package log

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// verbosity is the global V-level. V(n) reports true when n <= verbosity.
var verbosity atomic.Int32

// SetVerbosity sets the global V-level used by V and VEventf.
func SetVerbosity(level int32) {
	verbosity.Store(level)
}

// V reports whether logging at the given verbosity level is enabled.
func V(level int32) bool {
	return level <= verbosity.Load()
}

func output(ctx context.Context, severity string, format string, args []interface{}) {
	msg := redact.Sprintf(format, args...)
	tags := logtags.FromContext(ctx)
	ts := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	if tags != nil && len(tags.Get()) > 0 {
		fmt.Fprintf(os.Stderr, "%s %s [%s] %s\n", ts, severity, tags, msg)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s %s\n", ts, severity, msg)
}

// Infof logs an informational message, redacting any %s/%v arguments that
// implement redact.SafeValue-unaware interfaces as unsafe.
func Infof(ctx context.Context, format string, args ...interface{}) {
	output(ctx, "I", format, args)
}

// Warningf logs a warning message.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	output(ctx, "W", format, args)
}

// Errorf logs an error message.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	output(ctx, "E", format, args)
}

// Fatalf logs a message at fatal severity and terminates the process.
// Reserved for invariant violations the process cannot safely continue
// past.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	output(ctx, "F", format, args)
	os.Exit(1)
}

// VEventf logs at Infof severity only if V(level) is enabled. Use this
// inside hot loops (join inner loops, cache eviction scans) where the
// format call itself would otherwise be wasted work at default verbosity.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if !V(level) {
		return
	}
	output(ctx, "I", format, args)
}

// WithTags returns a context carrying the given key/value tag appended to
// any tags already present, mirroring logtags.AddTag.
func WithTags(ctx context.Context, key string, value interface{}) context.Context {
	tags := logtags.FromContext(ctx)
	if tags == nil {
		tags = &logtags.Buffer{}
	}
	tags = tags.Add(key, value)
	return logtags.WithTags(ctx, tags)
}
