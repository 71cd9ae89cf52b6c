/*
DESCRIPTION
  metrics.go provides prometheus collectors for parking monitors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package metrics provides the prometheus metrics of a parkwatch process.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ausocean/parkwatch/occupancy"
	"github.com/ausocean/parkwatch/spot"
)

const namespace = "parkwatch"

// Metrics holds the collectors of every camera. It is safe for concurrent
// use.
type Metrics struct {
	registry *prometheus.Registry

	processed *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	free      *prometheus.GaugeVec
	total     *prometheus.GaugeVec
	active    *prometheus.GaugeVec
	duration  prometheus.Histogram
}

// New returns Metrics registered with a new registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_processed_total",
			Help:      "Frames filtered and evaluated.",
		}, []string{"camera"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_skipped_total",
			Help:      "Frames that could not be obtained or decoded.",
		}, []string{"camera"}),
		free: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "free_spots",
			Help:      "Free spots in the latest frame.",
		}, []string{"camera"}),
		total: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_spots",
			Help:      "Spots evaluated in the latest frame.",
		}, []string{"camera"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spot_active_pixels",
			Help:      "Active mask pixels inside each spot in the latest frame.",
		}, []string{"camera", "spot"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_seconds",
			Help:      "Time taken to filter and evaluate a frame.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	m.registry.MustRegister(m.processed, m.skipped, m.free, m.total, m.active, m.duration)
	return m
}

// Observe records the evaluation of one frame of camera that took d.
func (m *Metrics) Observe(camera string, res occupancy.Result, d time.Duration) {
	m.processed.WithLabelValues(camera).Inc()
	m.free.WithLabelValues(camera).Set(float64(res.Free))
	m.total.WithLabelValues(camera).Set(float64(res.Total()))
	for _, s := range res.Spots {
		m.active.WithLabelValues(camera, spot.Label(s.Index)).Set(float64(s.Count))
	}
	m.duration.Observe(d.Seconds())
}

// Skip records a frame of camera that was skipped.
func (m *Metrics) Skip(camera string) {
	m.skipped.WithLabelValues(camera).Inc()
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns an HTTP handler serving the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
