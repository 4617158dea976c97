package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	countFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustsafety_moderation_count_failures_total",
			Help: "Moderation counters that failed and were reported as zero",
		},
		[]string{"counter"},
	)

	reviewsScoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustsafety_reviews_scored_total",
			Help: "Reviews scored for moderation by fake-likelihood band",
		},
		[]string{"fake_likelihood"},
	)
)
