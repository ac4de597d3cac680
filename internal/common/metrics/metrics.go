// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	AIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_ai_requests_total",
			Help: "Generative AI provider attempts by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	OutfitFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_outfit_fallbacks_total",
			Help: "Outfit responses served by the rule-based synthesizer",
		},
		[]string{"reason"},
	)

	LocaleCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_locale_cache_lookups_total",
			Help: "Weather and topography cache lookups",
		},
		[]string{"cache", "result"},
	)

	AdviceReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_advice_reloads_total",
			Help: "Advice catalog reload attempts",
		},
		[]string{"source", "status"},
	)

	AdviceEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stylist_advice_entries",
			Help: "Number of advice entries currently loaded",
		},
	)
)
