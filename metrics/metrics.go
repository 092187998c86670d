/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package metrics exposes the daemon's Prometheus instrumentation: gauges
// for what the Event Engine and Watch Bus currently hold live, and counters
// for the things IPcheck, numnick and the engine's backend reject or evict
// over time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the named set of collectors this core registers. One instance
// is created per daemon context and handed to every subsystem that needs to
// report a number.
type Metrics struct {
	reg *prometheus.Registry

	ActiveSockets   prometheus.Gauge
	ActiveTimers    prometheus.Gauge
	RegisteredWatch prometheus.Gauge

	ConnectionsAccepted prometheus.Counter
	ConnectionsRejected prometheus.Counter
	GhostEvictions      prometheus.Counter
	BackendRestarts     prometheus.Counter
	NumnickExhausted    prometheus.Counter

	LoopIterationLatency prometheus.Histogram
}

// New builds a fresh Metrics bound to its own Registry, so an embedder that
// runs several daemon contexts in one process (tests, multi-instance
// supervisors) does not collide on metric names.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		reg: reg,
		ActiveSockets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_active_sockets",
			Help:      "Sockets currently tracked by the event engine.",
		}),
		ActiveTimers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_active_timers",
			Help:      "Timers currently armed in the event engine.",
		}),
		RegisteredWatch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watch_registered_hooks",
			Help:      "Hooks currently registered on the watch bus.",
		}),
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ipcheck_connections_accepted_total",
			Help:      "Connections IPcheck allowed through connect-succeeded.",
		}),
		ConnectionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ipcheck_connections_rejected_total",
			Help:      "Connections IPcheck rejected as a clone-limit policy reject.",
		}),
		GhostEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "numnick_ghost_evictions_total",
			Help:      "Clients evicted from a numnick slot by a colliding announcement.",
		}),
		BackendRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_backend_restarts_total",
			Help:      "Process restarts triggered by the backend-error threshold.",
		}),
		NumnickExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "numnick_exhaustion_total",
			Help:      "Reserve attempts that failed because a server's numnick table was full.",
		}),
		LoopIterationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_loop_iteration_seconds",
			Help:      "Wall-clock duration of one event-loop iteration.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.ActiveSockets,
		m.ActiveTimers,
		m.RegisteredWatch,
		m.ConnectionsAccepted,
		m.ConnectionsRejected,
		m.GhostEvictions,
		m.BackendRestarts,
		m.NumnickExhausted,
		m.LoopIterationLatency,
	)

	return m
}

// Registry returns the underlying Prometheus registry for wiring into an
// HTTP exposition endpoint, which stays the embedder's responsibility.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}
