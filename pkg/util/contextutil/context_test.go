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
	"context"
	"net"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestRunWithTimeout(t *testing.T) {
	ctx := context.Background()

	err := RunWithTimeout(ctx, "foo", time.Nanosecond, func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	require.NoError(t, err, "RunWithTimeout shouldn't return a timeout error if nobody touched the context")

	err = RunWithTimeout(ctx, "foo", time.Nanosecond, func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return ctx.Err()
	})
	require.EqualError(t, err, `operation "foo" timed out after 1ns`)
	netErr, ok := err.(net.Error)
	require.True(t, ok, "RunWithTimeout should return a net.Error")
	require.True(t, netErr.Timeout())
	require.True(t, netErr.Temporary())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	err = RunWithTimeout(ctx, "foo", time.Nanosecond, func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return errors.Wrap(ctx.Err(), "custom error")
	})
	require.EqualError(t, err, `operation "foo" timed out after 1ns`)
	netErr, ok = err.(net.Error)
	require.True(t, ok, "RunWithTimeout should return a net.Error")
	require.True(t, netErr.Timeout())
	require.True(t, netErr.Temporary())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestRunWithTimeoutWithoutDeadlineExceeded ensures that when a timeout on
// the context occurs but the underlying returned error is not literally
// context.DeadlineExceeded (e.g. it was reconstructed across a boundary),
// the returned error is still a timeout, with the original error as its
// cause.
func TestRunWithTimeoutWithoutDeadlineExceeded(t *testing.T) {
	ctx := context.Background()
	notContextDeadlineExceeded := errors.New(context.DeadlineExceeded.Error())
	err := RunWithTimeout(ctx, "foo", time.Nanosecond, func(ctx context.Context) error {
		<-ctx.Done()
		return notContextDeadlineExceeded
	})
	netErr, ok := err.(net.Error)
	require.True(t, ok, "RunWithTimeout should return a net.Error")
	require.True(t, netErr.Timeout())
	require.True(t, netErr.Temporary())
	require.ErrorIs(t, err, notContextDeadlineExceeded)
}
