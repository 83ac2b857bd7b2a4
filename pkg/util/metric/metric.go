// Copyright 2026 The QLever-Go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package metric wraps prometheus/client_golang counters and gauges
// behind a small Registry so the query-execution core can instrument
// cache hits/misses, scheduler queue depth, and cancellations without
// every package importing prometheus directly. The statistics HTTP
// endpoint that would scrape this registry is an external collaborator;
// this package only produces the metrics.
package metric

import "github.com/prometheus/client_golang/prometheus"

// Registry is a named collection of counters and gauges for one
// subsystem (cache, scheduler, cancellation, ...).
type Registry struct {
	namespace string
	registry  *prometheus.Registry
}

// NewRegistry creates a Registry that prefixes every metric name with
// "qlever_<namespace>_".
func NewRegistry(namespace string) *Registry {
	return &Registry{namespace: namespace, registry: prometheus.NewRegistry()}
}

// Gatherer exposes the underlying prometheus.Gatherer for an external
// /metrics handler to scrape.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// NewCounter registers and returns a new counter named
// qlever_<namespace>_<name>.
func (r *Registry) NewCounter(name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "qlever",
		Subsystem: r.namespace,
		Name:      name,
		Help:      help,
	})
	r.registry.MustRegister(c)
	return c
}

// NewGauge registers and returns a new gauge named
// qlever_<namespace>_<name>.
func (r *Registry) NewGauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "qlever",
		Subsystem: r.namespace,
		Name:      name,
		Help:      help,
	})
	r.registry.MustRegister(g)
	return g
}

// NewCounterVec registers and returns a new counter vector named
// qlever_<namespace>_<name>.
func (r *Registry) NewCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qlever",
		Subsystem: r.namespace,
		Name:      name,
		Help:      help,
	}, labels)
	r.registry.MustRegister(c)
	return c
}
