// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/resource"
	"github.com/tern-browser/tern/script"
)

// Target represents one top-level browsing context. It owns the set
// of debugger streams attached to the context and translates engine
// navigation events into document-event resources for them.
type Target struct {
	name      string
	browserID id.BrowserID
	contextID id.ContextID
	control   script.Control
	logger    *slog.Logger

	tab           string
	watcher       string
	thread        string
	inspector     string
	cssProperties string
	accessibility string
	framerate     *Framerate

	mu            sync.Mutex
	title         string
	url           string
	pipeline      id.PipelineID
	outerWindowID id.OuterWindowID
	streams       map[protocol.StreamID]*protocol.Stream
}

// TargetMsg is the frame target form.
type TargetMsg struct {
	Actor              string `json:"actor"`
	Title              string `json:"title"`
	URL                string `json:"url"`
	BrowserID          uint32 `json:"browserId"`
	BrowsingContextID  uint32 `json:"browsingContextID"`
	OuterWindowID      uint32 `json:"outerWindowID"`
	IsTopLevelTarget   bool   `json:"isTopLevelTarget"`
	ThreadActor        string `json:"threadActor"`
	InspectorActor     string `json:"inspectorActor"`
	CSSPropertiesActor string `json:"cssPropertiesActor"`
	AccessibilityActor string `json:"accessibilityActor"`
	FramerateActor     string `json:"framerateActor"`
	TraitsMsg          struct {
		IsBrowsingContext bool `json:"isBrowsingContext"`
	} `json:"traits"`
}

// NewTarget builds the full actor family for a new webview: the
// target itself, its thread, inspector, watcher (with the watcher's
// session children), and the tab descriptor, and announces the tab on
// the root actor.
func NewTarget(r *actor.Registry, ctrl script.Control, logger *slog.Logger, browserID id.BrowserID, contextID id.ContextID, outerWindowID id.OuterWindowID, pipeline id.PipelineID, page script.PageInfo) *Target {
	name := r.NewName(KindTarget)

	thread := newThread(r, pipeline)
	inspector := newInspector(r, name)
	watcher := newWatcher(r, name)
	cssProperties := newCSSProperties(r, ctrl)
	accessibility := newAccessibility(r)
	framerate := newFramerate(r, ctrl, pipeline)

	target := &Target{
		name:          name,
		browserID:     browserID,
		contextID:     contextID,
		control:       ctrl,
		logger:        logger,
		watcher:       watcher.Name(),
		thread:        thread.Name(),
		inspector:     inspector.Name(),
		cssProperties: cssProperties.Name(),
		accessibility: accessibility.Name(),
		framerate:     framerate,
		title:         page.Title,
		url:           page.URL,
		pipeline:      pipeline,
		outerWindowID: outerWindowID,
		streams:       make(map[protocol.StreamID]*protocol.Stream),
	}
	r.Register(target)

	tab := newTab(r, name, browserID)
	target.tab = tab.Name()
	actor.Find[*Root](r, KindRoot.Prefix).AddTab(tab.Name())
	return target
}

func (a *Target) Name() string            { return a.name }
func (a *Target) ThreadName() string      { return a.thread }
func (a *Target) ContextID() id.ContextID { return a.contextID }
func (a *Target) WatcherName() string     { return a.watcher }
func (a *Target) TabName() string         { return a.tab }
func (a *Target) Control() script.Control { return a.control }

func (a *Target) OuterWindowID() id.OuterWindowID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outerWindowID
}

func (a *Target) Pipeline() id.PipelineID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pipeline
}

func (a *Target) TitleAndURL() (title, url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.title, a.url
}

func (a *Target) Encode(r *actor.Registry) TargetMsg {
	a.mu.Lock()
	defer a.mu.Unlock()
	msg := TargetMsg{
		Actor:              a.name,
		Title:              a.title,
		URL:                a.url,
		BrowserID:          uint32(a.browserID),
		BrowsingContextID:  uint32(a.contextID),
		OuterWindowID:      uint32(a.outerWindowID),
		IsTopLevelTarget:   true,
		ThreadActor:        a.thread,
		InspectorActor:     a.inspector,
		CSSPropertiesActor: a.cssProperties,
		AccessibilityActor: a.accessibility,
		FramerateActor:     a.framerate.Name(),
	}
	msg.TraitsMsg.IsBrowsingContext = true
	return msg
}

// Reload asks the page to reload itself.
func (a *Target) Reload() error {
	a.mu.Lock()
	pipeline := a.pipeline
	a.mu.Unlock()
	return a.control.Send(script.Reload{Pipeline: pipeline})
}

// AttachStream marks a debugger stream as interested in this target.
// The first attached stream switches the page into live-notification
// mode.
func (a *Target) AttachStream(streamID protocol.StreamID, stream *protocol.Stream) {
	a.mu.Lock()
	first := len(a.streams) == 0
	a.streams[streamID] = stream
	pipeline := a.pipeline
	a.mu.Unlock()
	if first {
		a.setLiveNotifications(pipeline, true)
	}
}

func (a *Target) CleanupStream(streamID protocol.StreamID) {
	a.mu.Lock()
	_, had := a.streams[streamID]
	delete(a.streams, streamID)
	last := had && len(a.streams) == 0
	pipeline := a.pipeline
	a.mu.Unlock()
	if last {
		a.setLiveNotifications(pipeline, false)
	}
}

func (a *Target) setLiveNotifications(pipeline id.PipelineID, enabled bool) {
	err := a.control.Send(script.WantsLiveNotifications{Pipeline: pipeline, Enabled: enabled})
	if err != nil {
		a.logger.Warn("live notification toggle failed",
			"target", a.name, "enabled", enabled, "error", err)
	}
}

func (a *Target) AttachedStreams() []*protocol.Stream {
	a.mu.Lock()
	defer a.mu.Unlock()
	streams := make([]*protocol.Stream, 0, len(a.streams))
	for _, s := range a.streams {
		streams = append(streams, s)
	}
	return streams
}

// DocumentEvent is a lifecycle entry in a document-event resource
// array.
type DocumentEvent struct {
	BrowsingContextID uint32  `json:"browsingContextID,omitempty"`
	InnerWindowID     uint32  `json:"innerWindowId,omitempty"`
	Name              string  `json:"name"`
	NewURI            string  `json:"newURI,omitempty"`
	Time              int64   `json:"time"`
	Title             *string `json:"title,omitempty"`
	URL               string  `json:"url,omitempty"`
}

// NavigationStart announces an outgoing document. The will-navigate
// event is attributed to the watcher; the dom-loading event that
// follows is attributed to the target itself.
func (a *Target) NavigationStart(url string) {
	now := time.Now().UnixMilli()
	streams := a.AttachedStreams()
	resource.Broadcast(streams, a.watcher, resource.TypeDocumentEvent, resource.Available, []any{
		DocumentEvent{
			BrowsingContextID: uint32(a.contextID),
			Name:              "will-navigate",
			NewURI:            url,
			Time:              now,
		},
	}, a.logger)
	resource.Broadcast(streams, a.name, resource.TypeDocumentEvent, resource.Available, []any{
		DocumentEvent{Name: "dom-loading", Time: now, URL: url},
	}, a.logger)
}

// NavigationStop commits the new document and completes the lifecycle
// sequence for attached streams.
func (a *Target) NavigationStop(pipeline id.PipelineID, outerWindowID id.OuterWindowID, page script.PageInfo) {
	a.mu.Lock()
	a.pipeline = pipeline
	a.outerWindowID = outerWindowID
	a.title = page.Title
	a.url = page.URL
	a.mu.Unlock()
	a.framerate.SetPipeline(pipeline)

	streams := a.AttachedStreams()
	resource.Broadcast(streams, a.name, resource.TypeDocumentEvent, resource.Available,
		a.completionEvents(), a.logger)
	a.pushFrameUpdate(streams)
}

// TitleChanged records the new document title and refreshes frame
// state on attached streams.
func (a *Target) TitleChanged(title string) {
	a.mu.Lock()
	a.title = title
	a.mu.Unlock()
	a.pushFrameUpdate(a.AttachedStreams())
}

func (a *Target) completionEvents() []any {
	a.mu.Lock()
	title := a.title
	url := a.url
	a.mu.Unlock()
	now := time.Now().UnixMilli()
	return []any{
		DocumentEvent{Name: "dom-interactive", Time: now, Title: &title, URL: url},
		DocumentEvent{Name: "dom-complete", Time: now, Title: &title, URL: url},
	}
}

// replayDocumentEvents brings a newly watching stream up to the
// current document's lifecycle state.
func (a *Target) replayDocumentEvents(stream *protocol.Stream) error {
	a.mu.Lock()
	title := a.title
	url := a.url
	a.mu.Unlock()
	now := time.Now().UnixMilli()
	return resource.Write(stream, a.name, resource.TypeDocumentEvent, resource.Available, []any{
		DocumentEvent{Name: "dom-loading", Time: now, URL: url},
		DocumentEvent{Name: "dom-interactive", Time: now, Title: &title, URL: url},
		DocumentEvent{Name: "dom-complete", Time: now, Title: &title, URL: url},
	})
}

type frameUpdateMsg struct {
	From   string     `json:"from"`
	Type   string     `json:"type"`
	Frames []frameMsg `json:"frames"`
}

type frameMsg struct {
	ID    uint32 `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (a *Target) pushFrameUpdate(streams []*protocol.Stream) {
	a.mu.Lock()
	msg := frameUpdateMsg{
		From: a.name,
		Type: "frameUpdate",
		Frames: []frameMsg{{
			ID:    uint32(a.contextID),
			URL:   a.url,
			Title: a.title,
		}},
	}
	a.mu.Unlock()
	for _, s := range streams {
		if err := s.WritePacket(msg); err != nil {
			a.logger.Warn("frame update write failed", "target", a.name, "error", err)
		}
	}
}

type listFramesReply struct {
	From   string `json:"from"`
	Frames []any  `json:"frames"`
}

func (a *Target) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "listFrames":
		return req.Reply(listFramesReply{From: a.name, Frames: []any{}})

	case "listWorkers":
		return req.Reply(listWorkersReply{From: a.name, Workers: []any{}})

	case "detach":
		a.CleanupStream(streamID)
		return req.Reply(EmptyReply{From: a.name})

	case "simulateColorScheme":
		scheme, err := actor.GetString(msg, "scheme")
		if err != nil {
			return err
		}
		a.mu.Lock()
		pipeline := a.pipeline
		a.mu.Unlock()
		if err := a.control.Send(script.SimulateColorScheme{Pipeline: pipeline, Scheme: scheme}); err != nil {
			return protocol.Internal(err)
		}
		return req.Reply(EmptyReply{From: a.name})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
