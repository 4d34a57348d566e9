// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package devtools

import (
	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/actors"
	"github.com/tern-browser/tern/resource"
	"github.com/tern-browser/tern/script"
)

// handleNetworkActivity fans one exchange phase out to the target's
// attached streams. The initial request phase announces the resource
// with an Available snapshot and immediately follows with the first
// Updated patch; later phases only patch.
func (s *Server) handleNetworkActivity(ev script.NetworkActivity) {
	target, ok := s.targetFor(ev.Context)
	if !ok {
		return
	}
	watcher := target.WatcherName()
	streams := target.AttachedStreams()

	switch ev.Phase {
	case script.PhaseRequest:
		if ev.Request == nil {
			s.logger.Warn("request phase without request data", "request", ev.RequestID)
			return
		}
		event := actors.NewNetworkEvent(s.registry, s.nextResource.Add(1), *ev.Request)
		s.mu.Lock()
		s.netEvents[ev.RequestID] = event.Name()
		s.mu.Unlock()
		resource.Broadcast(streams, watcher, resource.TypeNetworkEvent,
			resource.Available, []any{event.Encode()}, s.logger)
		resource.Broadcast(streams, watcher, resource.TypeNetworkEvent,
			resource.Updated, []any{event.ResourceUpdates()}, s.logger)

	case script.PhaseRequestUpdate, script.PhaseResponse:
		s.mu.Lock()
		name, known := s.netEvents[ev.RequestID]
		s.mu.Unlock()
		if !known {
			s.logger.Warn("phase for unknown network exchange", "request", ev.RequestID)
			return
		}
		event := actor.Find[*actors.NetworkEvent](s.registry, name)
		if ev.Phase == script.PhaseRequestUpdate && ev.Request != nil {
			event.AddRequest(*ev.Request)
		}
		if ev.Phase == script.PhaseResponse && ev.Response != nil {
			event.AddResponse(*ev.Response)
		}
		resource.Broadcast(streams, watcher, resource.TypeNetworkEvent,
			resource.Updated, []any{event.ResourceUpdates()}, s.logger)
	}
}
