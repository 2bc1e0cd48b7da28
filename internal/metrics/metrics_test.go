package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(registry)

	c.RecordCommitted()
	c.RecordCommitted()
	c.RecordRejected("OVERLAP")
	c.RecordRejected("OVERLAP")
	c.RecordRejected("QUOTA_EXCEEDED")
	c.RecordAdmitLatency(25 * time.Millisecond)

	if got := testutil.ToFloat64(c.committed); got != 2 {
		t.Errorf("committed counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.rejected.WithLabelValues("OVERLAP")); got != 2 {
		t.Errorf("rejected{reason=OVERLAP} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.rejected.WithLabelValues("QUOTA_EXCEEDED")); got != 1 {
		t.Errorf("rejected{reason=QUOTA_EXCEEDED} = %v, want 1", got)
	}

	if got := testutil.CollectAndCount(c.admitLatency); got != 1 {
		t.Errorf("latency histogram series = %d, want 1", got)
	}
}

func TestCollectorRegistersAllMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(registry)
	c.RecordCommitted()
	c.RecordRejected("BUSY")

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	want := map[string]bool{
		"roomly_admissions_committed_total": false,
		"roomly_admissions_rejected_total":  false,
		"roomly_admit_latency_seconds":      false,
	}
	for _, f := range families {
		if _, ok := want[f.GetName()]; !ok {
			t.Errorf("unexpected family: %s", f.GetName())
			continue
		}
		want[f.GetName()] = true
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("family %s not gathered", name)
		}
	}
}
