// Package metrics provides Prometheus metrics for the admin notices manager.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "anm"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks concurrent HTTP requests.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)
)

// Notice ledger metrics
var (
	// NoticesObservedTotal counts notice texts posted for reconciliation.
	NoticesObservedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notices",
			Name:      "observed_total",
			Help:      "Total notices reported by rendered pages",
		},
	)

	// NoticesFirstSeenTotal counts fingerprints added to the ledger.
	NoticesFirstSeenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notices",
			Name:      "first_seen_total",
			Help:      "Total notices recorded in the ledger for the first time",
		},
	)

	// NoticesSuppressedTotal counts statuses answered with do-not-display.
	NoticesSuppressedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notices",
			Name:      "suppressed_total",
			Help:      "Total notices suppressed because they were hidden forever",
		},
	)

	// NoticesHiddenTotal counts hide-forever requests.
	NoticesHiddenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notices",
			Name:      "hidden_total",
			Help:      "Total notices hidden forever",
		},
	)

	// NoticeFilesLoaded tracks notices currently served from the notice directory.
	NoticeFilesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notices",
			Name:      "files_loaded",
			Help:      "Number of notice files currently loaded",
		},
	)

	// NoticeFileReloadsTotal counts notice directory reloads.
	NoticeFileReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notices",
			Name:      "file_reloads_total",
			Help:      "Total reloads of the notice directory",
		},
	)
)

// AJAX metrics
var (
	// AjaxRejectedTotal counts AJAX requests refused before reaching a handler.
	AjaxRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ajax",
			Name:      "rejected_total",
			Help:      "Total AJAX requests rejected",
		},
		[]string{"reason"}, // auth, malformed, rate_limited
	)

	// PointerDismissalsTotal counts onboarding pointer dismissals.
	PointerDismissalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ajax",
			Name:      "pointer_dismissals_total",
			Help:      "Total onboarding pointer dismissals",
		},
		[]string{"pointer"},
	)
)

// Auth metrics
var (
	// AuthAttemptsTotal counts authentication attempts.
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Total authentication attempts",
		},
		[]string{"result"}, // success, failure
	)
)

// Info metric
var (
	// BuildInfo exposes build information.
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "commit", "build_time"},
	)
)

// SetBuildInfo sets the build info metric.
func SetBuildInfo(version, commit, buildTime string) {
	BuildInfo.WithLabelValues(version, commit, buildTime).Set(1)
}
