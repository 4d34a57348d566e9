// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"sync"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/script"
)

// Framerate records animation frame timestamps for the performance
// panel. While recording, every tick from the page re-arms the next
// frame request, so the tick stream keeps flowing until stopRecording.
type Framerate struct {
	actor.Base
	control script.Control

	mu        sync.Mutex
	pipeline  id.PipelineID
	recording bool
	ticks     []float64
}

func newFramerate(r *actor.Registry, ctrl script.Control, pipeline id.PipelineID) *Framerate {
	f := &Framerate{
		Base:     actor.NewBase(r.NewName(KindFramerate)),
		control:  ctrl,
		pipeline: pipeline,
	}
	r.Register(f)
	return f
}

// AddTick records one frame timestamp and, while recording, requests
// the next frame.
func (a *Framerate) AddTick(tick float64) {
	a.mu.Lock()
	a.ticks = append(a.ticks, tick)
	recording := a.recording
	pipeline := a.pipeline
	a.mu.Unlock()
	if recording {
		a.requestFrame(pipeline)
	}
}

// TakePendingTicks drains the recorded timestamps.
func (a *Framerate) TakePendingTicks() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	ticks := a.ticks
	a.ticks = nil
	return ticks
}

// SetPipeline redirects frame requests after a navigation commits.
func (a *Framerate) SetPipeline(pipeline id.PipelineID) {
	a.mu.Lock()
	a.pipeline = pipeline
	a.mu.Unlock()
}

func (a *Framerate) startRecording() error {
	a.mu.Lock()
	if a.recording {
		a.mu.Unlock()
		return nil
	}
	a.recording = true
	pipeline := a.pipeline
	a.mu.Unlock()
	return a.requestFrame(pipeline)
}

func (a *Framerate) stopRecording() {
	a.mu.Lock()
	a.recording = false
	a.mu.Unlock()
}

func (a *Framerate) requestFrame(pipeline id.PipelineID) error {
	return a.control.Send(script.RequestAnimationFrame{Pipeline: pipeline, Actor: a.Name()})
}

type framerateTicksReply struct {
	From  string    `json:"from"`
	Ticks []float64 `json:"ticks"`
}

func (a *Framerate) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "startRecording":
		if err := a.startRecording(); err != nil {
			return protocol.Internal(err)
		}
		return req.Reply(EmptyReply{From: a.Name()})

	case "stopRecording":
		a.stopRecording()
		ticks := a.TakePendingTicks()
		if ticks == nil {
			ticks = []float64{}
		}
		return req.Reply(framerateTicksReply{From: a.Name(), Ticks: ticks})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
