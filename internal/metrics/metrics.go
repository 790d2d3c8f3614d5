// Package metrics exposes Prometheus instrumentation for the bridge.
// The collector owns a private registry so the /metrics endpoint serves
// exactly the series registered here and nothing global.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the bridge's Prometheus series.
type Collector struct {
	reg *prometheus.Registry

	ExportsTotal   prometheus.Counter
	ExportFailures prometheus.Counter
	ImportsTotal   prometheus.Counter
	ImportFailures prometheus.Counter

	ExportDuration prometheus.Histogram
	ImportDuration prometheus.Histogram
}

// NewCollector creates and registers the bridge's metric series.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ExportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hastus_exports_total",
			Help: "Number of export requests handled.",
		}),
		ExportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hastus_export_failures_total",
			Help: "Number of export requests that ended in an error.",
		}),
		ImportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hastus_imports_total",
			Help: "Number of import requests handled.",
		}),
		ImportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hastus_import_failures_total",
			Help: "Number of import requests that ended in an error.",
		}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hastus_export_duration_seconds",
			Help:    "End-to-end duration of export requests.",
			Buckets: prometheus.DefBuckets,
		}),
		ImportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hastus_import_duration_seconds",
			Help:    "End-to-end duration of import requests.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.ExportsTotal, c.ExportFailures,
		c.ImportsTotal, c.ImportFailures,
		c.ExportDuration, c.ImportDuration,
	)
	return c
}

// Handler returns the HTTP handler serving the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
