// Package metrics owns the Prometheus registry and the counters the API
// increments. A private registry keeps tests free of global state.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "imagehub"

// Metrics groups the application's collectors.
type Metrics struct {
	registry *prometheus.Registry

	PresignedURLs  *prometheus.CounterVec
	ImageGroups    prometheus.Counter
	AuthFailures   *prometheus.CounterVec
	RateLimited    prometheus.Counter
	StorageUpdates prometheus.Counter
}

// New registers every collector on a fresh registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		PresignedURLs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presigned_urls_total",
			Help:      "Presigned URLs issued, by HTTP method.",
		}, []string{"method"}),
		ImageGroups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_groups_reserved_total",
			Help:      "Image key triples reserved for upload.",
		}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected API requests, by reason.",
		}, []string{"reason"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "API requests refused by the rate limiter.",
		}),
		StorageUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_config_updates_total",
			Help:      "Saved S3 settings.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PresignedURLs,
		m.ImageGroups,
		m.AuthFailures,
		m.RateLimited,
		m.StorageUpdates,
	)
	return m
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
