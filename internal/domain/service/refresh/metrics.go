package refresh

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSucceeded = "succeeded"
	resultFailed    = "failed"
	resultBusy      = "busy"
)

//nolint:gochecknoglobals
var (
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_refresh_total",
		Help: "Refresh attempts by trigger and result.",
	}, []string{"trigger", "result"})

	refreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analysis_refresh_duration_seconds",
		Help:    "Duration of analysis engine runs.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"trigger"})

	refreshInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "analysis_refresh_in_flight",
		Help: "1 while a refresh is running.",
	})

	cachedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "analysis_cached_bytes",
		Help: "Size of the cached analysis result.",
	})

	cachedItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "analysis_cached_items",
		Help: "Number of items in the cached analysis result.",
	})
)
