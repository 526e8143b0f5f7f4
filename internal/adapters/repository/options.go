package repository

import (
	"time"

	"github.com/eccstats/ecc-rankings/pkg/metrics"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithClock sets the clock used to stamp snapshots published without a time.
func WithClock(now func() time.Time) Option {
	return func(s *SnapshotStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics sets the metrics manager that receives publish gauges.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *SnapshotStore) {
		if m != nil {
			s.metrics = m
		}
	}
}
