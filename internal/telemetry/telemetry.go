// Package telemetry exposes pipeline run metrics on a private Prometheus
// registry. The registry is served over HTTP only when metrics are enabled,
// so one-shot runs never open a port.
package telemetry

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters and histograms recorded across pipeline runs.
type Metrics struct {
	registry *prometheus.Registry

	Runs            prometheus.Counter
	Published       prometheus.Counter
	PublishFailures prometheus.Counter
	SearchFailures  prometheus.Counter
	RunDuration     prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "autoposter",
			Name:      "runs_total",
			Help:      "Total pipeline runs started",
		}),
		Published: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "autoposter",
			Name:      "posts_published_total",
			Help:      "Total posts accepted by LinkedIn",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "autoposter",
			Name:      "publish_failures_total",
			Help:      "Total publish attempts that were rejected or errored",
		}),
		SearchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "autoposter",
			Name:      "search_query_failures_total",
			Help:      "Total news feed queries that returned an error",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "autoposter",
			Name:      "run_duration_seconds",
			Help:      "Duration of full pipeline runs in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Handler serves the private registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts the metrics endpoint in the background and returns the
// server so the caller can shut it down.
func (m *Metrics) Serve(port int, logger *log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("warn: metrics server error: %v", err)
		}
	}()
	return server
}
