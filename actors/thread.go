// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/protocol"
)

// Thread is the debugger-panel thread actor for one target. Script
// execution cannot pause yet, so attach and interrupt synthesize the
// paused state the frontend expects and resume is immediate.
type Thread struct {
	actor.Base
	pipeline id.PipelineID
	sources  *SourceManager
}

func newThread(r *actor.Registry, pipeline id.PipelineID) *Thread {
	t := &Thread{
		Base:     actor.NewBase(r.NewName(KindThread)),
		pipeline: pipeline,
		sources:  NewSourceManager(),
	}
	r.Register(t)
	return t
}

// Sources exposes the per-thread source bookkeeping to the engine
// event loop.
func (a *Thread) Sources() *SourceManager {
	return a.sources
}

type pausedPush struct {
	From         string    `json:"from"`
	Type         string    `json:"type"`
	Actor        string    `json:"actor"`
	PoppedFrames []any     `json:"poppedFrames"`
	Why          PauseWhy  `json:"why"`
	Frame        *FrameMsg `json:"frame,omitempty"`
}

type PauseWhy struct {
	Type string `json:"type"`
}

type resumedReply struct {
	From string `json:"from"`
	Type string `json:"type"`
}

type sourcesReply struct {
	From    string       `json:"from"`
	Sources []SourceForm `json:"sources"`
}

type eventBreakpointsReply struct {
	From  string `json:"from"`
	Value []any  `json:"value"`
}

func (a *Thread) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "attach":
		pause := newPause(r)
		push := pausedPush{
			From:         a.Name(),
			Type:         "paused",
			Actor:        pause.Name(),
			PoppedFrames: []any{},
			Why:          PauseWhy{Type: "attached"},
		}
		if err := req.Write(push); err != nil {
			return err
		}
		return req.Reply(EmptyReply{From: a.Name()})

	case "resume":
		return req.Reply(resumedReply{From: a.Name(), Type: "resumed"})

	case "interrupt":
		pause := newPause(r)
		frame := newFrame(r)
		return req.Reply(pausedPush{
			From:         a.Name(),
			Type:         "paused",
			Actor:        pause.Name(),
			PoppedFrames: []any{},
			Why:          PauseWhy{Type: "interrupted"},
			Frame:        &FrameMsg{Actor: frame.Name()},
		})

	case "reconfigure":
		return req.Reply(EmptyReply{From: a.Name()})

	case "sources":
		return req.Reply(sourcesReply{From: a.Name(), Sources: a.sources.Forms()})

	case "getAvailableEventBreakpoints":
		return req.Reply(eventBreakpointsReply{From: a.Name(), Value: []any{}})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}

// Pause marks a (synthetic) paused state. It exists only to be named
// in paused packets.
type Pause struct {
	actor.Base
}

func newPause(r *actor.Registry) *Pause {
	p := &Pause{Base: actor.NewBase(r.NewName(KindPause))}
	r.Register(p)
	return p
}

// Frame is a stack frame reference named in paused packets.
type Frame struct {
	actor.Base
}

// FrameMsg is the frame form carried by paused packets.
type FrameMsg struct {
	Actor string `json:"actor"`
}

func newFrame(r *actor.Registry) *Frame {
	f := &Frame{Base: actor.NewBase(r.NewName(KindFrame))}
	r.Register(f)
	return f
}
