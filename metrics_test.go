package authkit

import (
	"sync"
	"testing"
)

func TestMetricsDisabledIsNilSafe(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: false})
	if m != nil {
		t.Fatal("expected nil registry when disabled")
	}

	m.Inc(MetricLoginSuccess)

	snap := m.Snapshot()
	if len(snap.Counters) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap.Counters)
	}
}

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricRefreshCoalesced)
	m.Inc(MetricID(9999)) // out of range, ignored

	snap := m.Snapshot()
	if snap.Counters[MetricLoginSuccess] != 2 {
		t.Fatalf("expected 2 login successes, got %d", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricRefreshCoalesced] != 1 {
		t.Fatalf("expected 1 coalesced, got %d", snap.Counters[MetricRefreshCoalesced])
	}
	if _, ok := snap.Counters[MetricLogout]; ok {
		t.Fatal("expected zero counters omitted from snapshot")
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: true})

	const goroutines = 16
	const perGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricRefreshSuccess)
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if got := snap.Counters[MetricRefreshSuccess]; got != goroutines*perGoroutine {
		t.Fatalf("expected %d, got %d", goroutines*perGoroutine, got)
	}
}
