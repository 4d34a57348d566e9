// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// Package resource implements the watcher notification framing: the
// fan-out of unsolicited resource events (document lifecycle, network
// activity) to every stream attached to a debugging target.
//
// A resource is announced once with the Available framing (a complete
// snapshot) and thereafter patched with the Updated framing, which
// references the resource by its stable id. Available must reach a
// stream strictly before any Updated for the same resource; the
// producing component sequences its own notifications, and this
// package writes in call order and never reorders.
package resource

import (
	"log/slog"

	"github.com/tern-browser/tern/metrics"
	"github.com/tern-browser/tern/protocol"
)

// ArrayType selects the notification framing.
type ArrayType int

const (
	// Available announces a complete snapshot of a newly observed
	// resource.
	Available ArrayType = iota
	// Updated carries an incremental patch referencing an
	// already-announced resource.
	Updated
)

func (t ArrayType) messageType() string {
	if t == Updated {
		return "resources-updated-array"
	}
	return "resources-available-array"
}

// Resource type names used on the wire.
const (
	TypeDocumentEvent = "document-event"
	TypeNetworkEvent  = "network-event"
	TypeSource        = "source"
)

// arrayMessage is the wire shape of a resource notification: the array
// field pairs each resource type name with the resources of that type,
// allowing one packet to carry a batch.
type arrayMessage struct {
	From  string `json:"from"`
	Type  string `json:"type"`
	Array []any  `json:"array"`
}

// Write sends one batch of resources of a single type to one stream.
func Write(stream *protocol.Stream, from, resourceType string, arrayType ArrayType, resources []any) error {
	msg := arrayMessage{
		From:  from,
		Type:  arrayType.messageType(),
		Array: []any{[]any{resourceType, resources}},
	}
	return stream.WritePacket(msg)
}

// WriteOne is Write for a single resource.
func WriteOne(stream *protocol.Stream, from, resourceType string, arrayType ArrayType, res any) error {
	return Write(stream, from, resourceType, arrayType, []any{res})
}

// Broadcast writes the same batch to every given stream. A write
// failure on one stream is counted and logged but never prevents
// delivery to the others: transient disconnects are expected and are
// reconciled by the next cleanup pass.
func Broadcast(streams []*protocol.Stream, from, resourceType string, arrayType ArrayType, resources []any, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, stream := range streams {
		if err := Write(stream, from, resourceType, arrayType, resources); err != nil {
			metrics.BroadcastErrors.Inc()
			logger.Debug("resource broadcast write failed",
				"stream", stream.ID(), "resource", resourceType, "error", err)
			continue
		}
		metrics.BroadcastWrites.Inc()
	}
}
