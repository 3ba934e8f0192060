package authkit

import "sync/atomic"

// MetricID identifies one counter in the engine's lock-free registry.
type MetricID uint16

const (
	// MetricLoginSuccess counts completed logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected or failed logins.
	MetricLoginFailure
	// MetricSignupSuccess counts completed signups (ack-only included).
	MetricSignupSuccess
	// MetricSignupFailure counts rejected or failed signups.
	MetricSignupFailure
	// MetricRefreshSuccess counts completed refresh-token exchanges.
	MetricRefreshSuccess
	// MetricRefreshFailure counts refresh failures that forced a logout.
	MetricRefreshFailure
	// MetricRefreshCoalesced counts refresh callers that shared an already
	// in-flight exchange instead of issuing their own.
	MetricRefreshCoalesced
	// MetricRefreshSuperseded counts refreshes discarded because a logout
	// won the race.
	MetricRefreshSuperseded
	// MetricRetryAfterRefresh counts original requests resubmitted after a
	// 401-triggered refresh.
	MetricRetryAfterRefresh
	// MetricLogout counts logout calls, explicit and forced.
	MetricLogout
	// MetricRestoreSuccess counts startup restorations that re-established
	// a session.
	MetricRestoreSuccess
	// MetricRestoreFailure counts restorations that found tokens but could
	// not revive them.
	MetricRestoreFailure
	// MetricRestoreSkipped counts clean logged-out startups.
	MetricRestoreSkipped
	// MetricProfileRefreshFailure counts swallowed profile re-fetch failures.
	MetricProfileRefreshFailure
	// MetricProfileUpdateSuccess counts applied profile mutations.
	MetricProfileUpdateSuccess
	// MetricProfileUpdateFailure counts rejected profile mutations.
	MetricProfileUpdateFailure
	// MetricSubmitSuccess counts accepted form submissions.
	MetricSubmitSuccess
	// MetricSubmitFailure counts rejected form submissions.
	MetricSubmitFailure

	metricCount
)

// Metrics is a fixed-size atomic counter registry. All methods are safe for
// concurrent use and nil receivers.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{}
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		if v := m.counters[id].Load(); v != 0 {
			snap.Counters[id] = v
		}
	}
	return snap
}
