// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package devtools

import (
	"context"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/actors"
	"github.com/tern-browser/tern/script"
)

// RunEvents consumes engine events until ctx is done or the channel
// closes. Events are applied in arrival order; the engine relies on
// that for navigation and network sequencing.
func (s *Server) RunEvents(ctx context.Context, events <-chan script.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.HandleEvent(ev)
		}
	}
}

// HandleEvent applies one engine event to the actor tree.
func (s *Server) HandleEvent(ev script.Event) {
	switch ev := ev.(type) {
	case script.NewGlobal:
		s.handleNewGlobal(ev)
	case script.NavigationStart:
		if target, ok := s.targetFor(ev.Context); ok {
			target.NavigationStart(ev.URL)
		}
	case script.NavigationStop:
		s.handleNavigationStop(ev)
	case script.TitleChanged:
		if target, ok := s.targetForPipeline(ev.Pipeline); ok {
			target.TitleChanged(ev.Title)
		}
	case script.SourceLoaded:
		s.handleSourceLoaded(ev)
	case script.AnimationFrameTick:
		s.handleAnimationFrameTick(ev)
	case script.NetworkActivity:
		s.handleNetworkActivity(ev)
	default:
		s.logger.Warn("unhandled engine event", "event", ev)
	}
}

func (s *Server) handleNewGlobal(ev script.NewGlobal) {
	browserID := s.idMap.Browser(ev.WebView)
	contextID := s.idMap.Context(ev.Context)
	outerWindowID := s.idMap.OuterWindow(ev.Pipeline)

	target := actors.NewTarget(s.registry, ev.Control, s.logger,
		browserID, contextID, outerWindowID, ev.Pipeline, ev.Page)

	s.mu.Lock()
	s.targets[ev.Context] = target.Name()
	s.pipelines[ev.Pipeline] = ev.Context
	s.mu.Unlock()

	s.logger.Info("new debuggable global",
		"target", target.Name(),
		"context", uint64(ev.Context),
		"pipeline", uint64(ev.Pipeline),
		"url", ev.Page.URL)
}

func (s *Server) handleNavigationStop(ev script.NavigationStop) {
	target, ok := s.targetFor(ev.Context)
	if !ok {
		return
	}
	s.mu.Lock()
	s.pipelines[ev.Pipeline] = ev.Context
	s.mu.Unlock()
	outerWindowID := s.idMap.OuterWindow(ev.Pipeline)
	target.NavigationStop(ev.Pipeline, outerWindowID, ev.Page)
}

func (s *Server) handleAnimationFrameTick(ev script.AnimationFrameTick) {
	a, ok := s.registry.Get(ev.Actor)
	if !ok {
		return
	}
	framerate, ok := a.(*actors.Framerate)
	if !ok {
		s.logger.Warn("frame tick addressed to a non-framerate actor", "actor", ev.Actor)
		return
	}
	framerate.AddTick(ev.Time)
}

func (s *Server) handleSourceLoaded(ev script.SourceLoaded) {
	target, ok := s.targetForPipeline(ev.Pipeline)
	if !ok {
		return
	}
	if ev.IsInline {
		if _, set := s.registry.InlineSourceContent(ev.Pipeline); !set {
			s.registry.SetInlineSourceContent(ev.Pipeline, ev.Content)
		}
	}
	thread := actor.Find[*actors.Thread](s.registry, target.ThreadName())
	form, fresh := thread.Sources().Add(s.registry, ev.Pipeline, ev.URL, ev.Content, ev.IsInline)
	if !fresh {
		return
	}
	actors.NotifySource(target.AttachedStreams(), target.ThreadName(), form, s.logger)
}
