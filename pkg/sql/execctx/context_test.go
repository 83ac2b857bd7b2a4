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

package execctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ad-freiburg/qlever-go/pkg/config"
	"github.com/ad-freiburg/qlever-go/pkg/sql/cancel"
)

func TestNewUsesConfiguredQueryMemoryBudget(t *testing.T) {
	cfg := config.Default()
	cfg.QueryMemoryBudget = 64
	cfg.Cancellation = config.CancelDisabled

	ectx := New(cfg, nil, nil, 0)
	defer ectx.Close()

	require.Equal(t, int64(64), ectx.Allocator.Budget())
	require.NoError(t, ectx.Allocator.Reserve(64))
	require.Error(t, ectx.Allocator.Reserve(1))
}

func TestNewFallsBackToDefaultTimeLimit(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultTimeLimit = 5 * time.Second
	cfg.Cancellation = config.CancelDisabled

	ectx := New(cfg, nil, nil, 0)
	defer ectx.Close()

	require.Equal(t, 5*time.Second, ectx.TimeLimit)
}

func TestNewHonorsExplicitTimeLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Cancellation = config.CancelDisabled

	ectx := New(cfg, nil, nil, 2*time.Second)
	defer ectx.Close()

	require.Equal(t, 2*time.Second, ectx.TimeLimit)
}

func TestThrowIfCancelledForwardsToHandle(t *testing.T) {
	cfg := config.Default()
	cfg.Cancellation = config.CancelNoWatchdog

	ectx := New(cfg, nil, nil, time.Minute)
	defer ectx.Close()

	require.NoError(t, ectx.ThrowIfCancelled())
	ectx.Cancel.Cancel(cancel.ReasonManual)
	err := ectx.ThrowIfCancelled()
	require.Error(t, err)
	require.ErrorIs(t, err, cancel.ErrCancelled)
}

func TestCloseStopsDeadlineTimerWithoutPanicking(t *testing.T) {
	cfg := config.Default()
	cfg.Cancellation = config.CancelEnabled

	watchdog := cancel.NewWatchdog(time.Second, 10*time.Millisecond)
	watchdog.Start(context.Background())
	defer watchdog.Stop()

	ectx := New(cfg, nil, watchdog, time.Minute)
	ectx.Close()
}
