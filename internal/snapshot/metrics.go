package snapshot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/richxcame/salon-safety/internal/risk"
)

var (
	feedFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustsafety_snapshot_feed_failures_total",
			Help: "Snapshot feeds that failed and were replaced with an empty batch",
		},
		[]string{"feed"},
	)

	snapshotBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trustsafety_snapshot_build_duration_seconds",
			Help:    "Time to fetch and assemble an appointment snapshot",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		},
	)

	snapshotCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustsafety_snapshot_cache_total",
			Help: "Snapshot cache lookups by result",
		},
		[]string{"result"},
	)

	fraudAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustsafety_fraud_alerts_total",
			Help: "Fraud alerts raised by freshly built snapshots",
		},
		[]string{"type"},
	)
)

func recordAlerts(alerts []risk.FraudAlert) {
	for _, alert := range alerts {
		fraudAlertsTotal.WithLabelValues(string(alert.Type)).Inc()
	}
}
