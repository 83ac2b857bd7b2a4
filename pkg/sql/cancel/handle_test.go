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

package cancel

import (
	"context"
	"testing"
	"time"

	"github.com/ad-freiburg/qlever-go/pkg/config"
	"github.com/ad-freiburg/qlever-go/pkg/util/metric"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDisabledHandleNeverCancels(t *testing.T) {
	h := NewHandle(Disabled, time.Millisecond, nil)
	h.Cancel(ReasonManual)
	require.NoError(t, h.ThrowIfCancelled())
	h.CheckIn()
	h.Close()
}

func TestNoWatchdogHandleManualCancel(t *testing.T) {
	h := NewHandle(NoWatchdog, 0, nil)
	defer h.Close()
	require.NoError(t, h.ThrowIfCancelled())
	h.Cancel(ReasonManual)
	err := h.ThrowIfCancelled()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCancelled)
	var cancelled *Cancelled
	require.ErrorAs(t, err, &cancelled)
	require.Equal(t, ReasonManual, cancelled.Reason)
}

func TestCancelIsOneWay(t *testing.T) {
	h := NewHandle(NoWatchdog, 0, nil)
	defer h.Close()
	h.Cancel(ReasonManual)
	h.Cancel(ReasonTimeout)
	err := h.ThrowIfCancelled()
	var cancelled *Cancelled
	require.ErrorAs(t, err, &cancelled)
	require.Equal(t, ReasonManual, cancelled.Reason)
}

func TestDeadlineTimerCancelsOnTimeout(t *testing.T) {
	h := NewHandle(NoWatchdog, 10*time.Millisecond, nil)
	defer h.Close()
	require.NoError(t, h.ThrowIfCancelled())
	require.Eventually(t, func() bool {
		return h.ThrowIfCancelled() != nil
	}, time.Second, time.Millisecond)
	var cancelled *Cancelled
	require.ErrorAs(t, h.ThrowIfCancelled(), &cancelled)
	require.Equal(t, ReasonTimeout, cancelled.Reason)
}

func TestNoWatchdogHandleCloseStopsTimerBeforeFiring(t *testing.T) {
	h := NewHandle(NoWatchdog, 50*time.Millisecond, nil)
	h.Close()
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, h.ThrowIfCancelled())
}

func TestEnabledHandleWatchdogCancelsStalledHandle(t *testing.T) {
	w := NewWatchdog(20*time.Millisecond, 5*time.Millisecond)
	w.Start(context.Background())
	defer w.Stop()

	h := NewHandle(Enabled, 0, w)
	defer h.Close()

	require.Eventually(t, func() bool {
		return h.ThrowIfCancelled() != nil
	}, time.Second, 5*time.Millisecond)
	var cancelled *Cancelled
	require.ErrorAs(t, h.ThrowIfCancelled(), &cancelled)
	require.Equal(t, ReasonWatchdogStall, cancelled.Reason)
}

func TestEnabledHandleCheckInPreventsStall(t *testing.T) {
	w := NewWatchdog(30*time.Millisecond, 5*time.Millisecond)
	w.Start(context.Background())
	defer w.Stop()

	h := NewHandle(Enabled, 0, w)
	defer h.Close()

	deadline := time.Now().Add(150 * time.Millisecond)
	for time.Now().Before(deadline) {
		h.CheckIn()
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, h.ThrowIfCancelled())
}

func TestModeFromConfig(t *testing.T) {
	require.Equal(t, Enabled, ModeFromConfig(config.CancelEnabled))
	require.Equal(t, NoWatchdog, ModeFromConfig(config.CancelNoWatchdog))
	require.Equal(t, Disabled, ModeFromConfig(config.CancelDisabled))
}

func TestReasonString(t *testing.T) {
	require.Equal(t, "not cancelled", reasonNone.String())
	require.Equal(t, "manual cancellation", ReasonManual.String())
	require.Equal(t, "timeout", ReasonTimeout.String())
	require.Equal(t, "watchdog detected stall", ReasonWatchdogStall.String())
}

func TestAttachMetricsCountsOnlyTheWinningCancel(t *testing.T) {
	reg := metric.NewRegistry("cancel_test")
	AttachMetrics(reg)

	h := NewHandle(NoWatchdog, 0, nil)
	h.Cancel(ReasonManual)
	h.Cancel(ReasonTimeout) // loses the race, must not double-count
	require.Equal(t, float64(1), testutil.ToFloat64(cancellations.WithLabelValues("manual cancellation")))
	require.Equal(t, float64(0), testutil.ToFloat64(cancellations.WithLabelValues("timeout")))
}
