package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics("poolcheck", 5, 3, 2, 7)

	if got := testutil.ToFloat64(DBPoolTotalConns.WithLabelValues("poolcheck")); got != 5 {
		t.Errorf("total conns gauge = %v, want 5", got)
	}
	if got := testutil.ToFloat64(DBPoolIdleConns.WithLabelValues("poolcheck")); got != 3 {
		t.Errorf("idle conns gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(DBPoolAcquiredConns.WithLabelValues("poolcheck")); got != 2 {
		t.Errorf("acquired conns gauge = %v, want 2", got)
	}

	// Gauges track the latest value; the acquire counter accumulates.
	UpdateDBPoolMetrics("poolcheck", 4, 4, 0, 3)

	if got := testutil.ToFloat64(DBPoolTotalConns.WithLabelValues("poolcheck")); got != 4 {
		t.Errorf("total conns gauge after update = %v, want 4", got)
	}
	if got := testutil.ToFloat64(DBPoolAcquiresTotal.WithLabelValues("poolcheck")); got != 10 {
		t.Errorf("acquires counter = %v, want 10", got)
	}
}

func TestUpdateJobMetrics(t *testing.T) {
	UpdateJobMetrics("jobcheck", time.Now().Add(-time.Second), nil)

	if got := testutil.ToFloat64(ScheduledJobLastRun.WithLabelValues("jobcheck")); got == 0 {
		t.Error("last run timestamp not set")
	}
	if got := testutil.ToFloat64(ScheduledJobFailuresTotal.WithLabelValues("jobcheck")); got != 0 {
		t.Errorf("failures counter = %v, want 0 after success", got)
	}

	UpdateJobMetrics("jobcheck", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(ScheduledJobFailuresTotal.WithLabelValues("jobcheck")); got != 1 {
		t.Errorf("failures counter = %v, want 1 after failure", got)
	}
}
