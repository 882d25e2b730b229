// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus metrics about asynchronous request
// lifecycles by observing the events flowing into a Sink.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogama/asynchttp"
)

// Namespace prefixes every metric name exported by this package.
const Namespace = "asynchttp"

// A Sink is an asynchttp.Sink that counts events before passing them
// on to the next Sink.
//
// It exports two counters:
//
// • asynchttp_events_total, labeled by event kind and, for error
// events, by the transience category of the failure; and
//
// • asynchttp_body_bytes_total, the number of response body bytes
// delivered with done events.
type Sink struct {
	next   asynchttp.Sink
	events *prometheus.CounterVec
	bytes  prometheus.Counter
}

// NewSink creates a Sink that forwards to next and registers its
// counters with reg. If next is nil, events are discarded after being
// counted.
func NewSink(next asynchttp.Sink, reg prometheus.Registerer) (*Sink, error) {
	if next == nil {
		next = asynchttp.Discard
	}
	s := &Sink{
		next: next,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_total",
			Help:      "Lifecycle events delivered for asynchronous requests.",
		}, []string{"kind", "category"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "body_bytes_total",
			Help:      "Response body bytes delivered with done events.",
		}),
	}
	if err := reg.Register(s.events); err != nil {
		return nil, err
	}
	if err := reg.Register(s.bytes); err != nil {
		reg.Unregister(s.events)
		return nil, err
	}
	return s, nil
}

// Enqueue counts e and passes it to the next Sink.
func (s *Sink) Enqueue(e asynchttp.Event) {
	category := ""
	if e.Kind == asynchttp.EventError {
		category = e.Category.String()
	}
	s.events.WithLabelValues(e.Kind.String(), category).Inc()
	if e.Kind == asynchttp.EventDone {
		s.bytes.Add(float64(len(e.Body)))
	}
	s.next.Enqueue(e)
}
