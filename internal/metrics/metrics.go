package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// RunsTotal counts completed pipeline runs by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortwatch_runs_total",
			Help: "Total pipeline runs by outcome",
		},
		[]string{"status"}, // success, failure, skipped
	)

	// PackagesClassified counts classified packages per run, by primary status.
	PackagesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortwatch_packages_classified_total",
			Help: "Classified packages by primary status",
		},
		[]string{"primary_status"},
	)

	// StageDuration observes per-stage wall time.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sortwatch_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"stage"},
	)

	// AggregateRows gauges the size of the last published aggregate.
	AggregateRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sortwatch_aggregate_rows",
			Help: "Rows in the last published backlog aggregate",
		},
	)
)

// Serve exposes /metrics on addr. Blocks; run it in a goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("Metrics endpoint listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics endpoint stopped")
	}
}
