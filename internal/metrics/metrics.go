// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Total number of submission uploads",
		},
		[]string{"action"},
	)

	GradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grades_total",
			Help: "Total number of grades recorded",
		},
		[]string{"grade"},
	)

	TaskUnlocksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "task_unlocks_total",
			Help: "Total number of tasks unlocked by progression",
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
