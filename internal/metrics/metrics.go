package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanverify_applications_processed_total",
			Help: "Total number of loan applications processed, by final decision",
		},
		[]string{"decision"},
	)

	PipelineFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanverify_pipeline_failures_total",
			Help: "Total number of pipeline runs that failed, by stage",
		},
		[]string{"stage"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "loanverify_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	PipelineActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loanverify_pipeline_active",
			Help: "Number of pipeline runs currently in progress",
		},
	)
)
