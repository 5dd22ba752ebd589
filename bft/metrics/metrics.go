// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

// Package metrics defines the counters the BFT mempool core maintains per
// spec.md §7 ("errors are ... counted in metrics"). It registers counters
// against a caller-supplied prometheus.Registerer; it never starts an HTTP
// handler of its own — exposing metrics over the wire is the exporter's
// job, and exporters are explicitly out of scope (spec.md §1).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters the storage and admission packages update.
type Metrics struct {
	// AdmissionRejections counts certificate admission failures, labeled
	// by error kind (see bfterrors.Kind.String()).
	AdmissionRejections *prometheus.CounterVec
	// CertificatesCollected counts certificates removed by garbage
	// collection (as opposed to explicit ledger-commit removal).
	CertificatesCollected prometheus.Counter
	// GCRoundsAdvanced counts how many rounds a single GC sweep advanced
	// the watermark by, summed across sweeps.
	GCRoundsAdvanced prometheus.Counter
}

// New constructs a Metrics instance, registering its collectors against
// reg. reg may be a fresh prometheus.NewRegistry() in tests or the
// process-wide default registry in production; this package does not
// care which.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AdmissionRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bft",
			Subsystem: "admission",
			Name:      "rejections_total",
			Help:      "Certificate admission rejections, labeled by error kind.",
		}, []string{"kind"}),
		CertificatesCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bft",
			Subsystem: "gc",
			Name:      "certificates_collected_total",
			Help:      "Certificates removed by garbage collection.",
		}),
		GCRoundsAdvanced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bft",
			Subsystem: "gc",
			Name:      "rounds_advanced_total",
			Help:      "Sum of rounds the GC watermark has advanced by.",
		}),
	}
	reg.MustRegister(m.AdmissionRejections, m.CertificatesCollected, m.GCRoundsAdvanced)
	return m
}

// Noop returns a Metrics instance registered against a private registry,
// for callers that don't want to thread metrics through but still need a
// non-nil *Metrics (e.g. tests).
func Noop() *Metrics {
	return New(prometheus.NewRegistry())
}
