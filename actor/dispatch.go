// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actor

import (
	"github.com/tern-browser/tern/metrics"
	"github.com/tern-browser/tern/protocol"
)

// errorReply is the wire shape of routing and handler failures.
type errorReply struct {
	From  string `json:"from"`
	Error string `json:"error"`
}

// HandleMessage routes one inbound message to the actor its "to" field
// names and converts failures into wire error replies. Per pass:
//
//   - no "to" field: malformed input, logged and dropped without a
//     reply (there is no actor identity to address one to)
//   - "to" does not resolve: reply {"from": to, "error": "noSuchActor"}
//     and stop; clients race actor teardown, so this is routine
//   - the handler fails, panics, or returns without its final reply:
//     reply {"from": to, "error": <kind name>}
//
// Whatever the outcome, deferred registrations and removals staged
// during the pass are committed once, afterwards.
func (r *Registry) HandleMessage(msg map[string]any, stream *protocol.Stream) {
	defer r.flushDeferred()

	to, ok := msg["to"].(string)
	if !ok {
		r.logger.Warn("dropping message with no destination", "message", msg)
		metrics.DispatchTotal.WithLabelValues(metrics.OutcomeMalformed).Inc()
		return
	}

	a, ok := r.store.Get(to)
	if !ok {
		metrics.DispatchTotal.WithLabelValues(metrics.OutcomeNoSuchActor).Inc()
		if err := stream.WritePacket(errorReply{From: to, Error: "noSuchActor"}); err != nil {
			r.logger.Debug("noSuchActor reply failed", "to", to, "error", err)
		}
		return
	}

	msgType, _ := msg["type"].(string)
	req := protocol.NewRequest(stream, to)
	err := r.runHandler(a, req, msgType, msg, stream.ID())
	if err == nil && !req.Replied() {
		err = protocol.Internalf("handler for %q finished %q without a reply", to, msgType)
	}
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(metrics.OutcomeHandlerError).Inc()
		reply := errorReply{From: to, Error: protocol.WireName(err)}
		r.logger.Warn("protocol error reply", "to", to, "type", msgType, "error", err)
		if writeErr := stream.WritePacket(reply); writeErr != nil {
			r.logger.Debug("error reply failed", "to", to, "error", writeErr)
		}
		return
	}
	metrics.DispatchTotal.WithLabelValues(metrics.OutcomeHandled).Inc()
}

// runHandler invokes the actor's handler and confines panics to the
// dispatch in progress. Panics here are programming-error-class
// failures (a typed lookup on the wrong concrete type, a write-once
// index set twice); they must never take down other connections, and
// the requesting client still gets an internal-fault reply rather than
// a request that hangs forever.
func (r *Registry) runHandler(a Actor, req *protocol.Request, msgType string, msg map[string]any, streamID protocol.StreamID) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("handler panic", "actor", a.Name(), "type", msgType, "panic", recovered)
			err = protocol.Internalf("handler for %q panicked: %v", a.Name(), recovered)
		}
	}()
	return a.HandleMessage(req, r, msgType, msg, streamID)
}
