// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics holds the Prometheus instruments for the devtools
// server. All instruments register on the default registerer; the
// server binary decides whether to expose them on a debug listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcome label values.
const (
	OutcomeHandled      = "handled"
	OutcomeNoSuchActor  = "no_such_actor"
	OutcomeHandlerError = "handler_error"
	OutcomeMalformed    = "malformed"
)

var (
	// DispatchTotal counts inbound protocol messages by dispatch outcome.
	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tern",
		Subsystem: "devtools",
		Name:      "dispatch_total",
		Help:      "Inbound protocol messages by dispatch outcome.",
	}, []string{"outcome"})

	// BroadcastWrites counts resource broadcast writes per stream.
	BroadcastWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tern",
		Subsystem: "devtools",
		Name:      "broadcast_writes_total",
		Help:      "Resource notifications written to attached streams.",
	})

	// BroadcastErrors counts broadcast writes that failed. Failures are
	// expected around disconnects and are never escalated.
	BroadcastErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tern",
		Subsystem: "devtools",
		Name:      "broadcast_errors_total",
		Help:      "Resource notification writes that failed.",
	})

	// ConnectionsActive tracks currently attached debugger connections.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tern",
		Subsystem: "devtools",
		Name:      "connections_active",
		Help:      "Currently attached debugger connections.",
	})
)
