// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus instrumentation on its own registry.
type metrics struct {
	registry       *prometheus.Registry
	requestsTotal  *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
	renderFailures prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphdoc_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"path", "code"}),
		requestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphdoc_http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		renderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphdoc_document_render_failures_total",
			Help: "Document requests answered 500 because the template failed to parse or serialize.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestSeconds,
		m.renderFailures,
	)

	return m
}

func (m *metrics) observe(path string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.requestSeconds.WithLabelValues(path).Observe(d.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
