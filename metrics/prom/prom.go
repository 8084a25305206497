// Package prom exports threadlocal.Metrics to Prometheus.
package prom

import (
	"github.com/IvanBrykalov/threadlocal/threadlocal"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements threadlocal.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	inits     prometheus.Counter
	hits      prometheus.Counter
	reclaimed prometheus.Counter
	cells     prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
//
// Use distinct constLabels (e.g. {"local": "scratch"}) when several
// containers report into the same registry.
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		inits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "inits_total",
			Help:        "Per-goroutine copies created on first access",
			ConstLabels: constLabels,
		}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Accesses that found an existing copy",
			ConstLabels: constLabels,
		}),
		reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "reclaimed_total",
			Help:        "Copies dropped at container teardown",
			ConstLabels: constLabels,
		}),
		cells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "cells",
			Help:        "Number of live per-goroutine copies",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.inits, a.hits, a.reclaimed, a.cells)
	return a
}

// Init increments the first-access counter and the live-copies gauge.
// The gauge moves by deltas so concurrent first accesses never leave it stale.
func (a *Adapter) Init() {
	a.inits.Inc()
	a.cells.Inc()
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Reclaim adds n to the teardown counter and removes n live copies.
func (a *Adapter) Reclaim(n int) {
	a.reclaimed.Add(float64(n))
	a.cells.Sub(float64(n))
}

// Compile-time check: ensure Adapter implements threadlocal.Metrics.
var _ threadlocal.Metrics = (*Adapter)(nil)
