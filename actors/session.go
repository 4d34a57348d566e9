// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"fmt"
	"sync"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
)

// NetworkParent is the watcher's network configuration child. Body
// capture is acknowledged but not performed; the frontend requires
// the actor to exist before it enables the network panel.
type NetworkParent struct {
	actor.Base
}

func (a *NetworkParent) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "setSaveRequestAndResponseBodies":
		return req.Reply(EmptyReply{From: a.Name()})
	default:
		return protocol.ErrUnrecognizedPacketType
	}
}

// ThreadConfiguration accepts debugger configuration updates.
type ThreadConfiguration struct {
	actor.Base
}

func (a *ThreadConfiguration) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "updateConfiguration":
		return req.Reply(EmptyReply{From: a.Name()})
	default:
		return protocol.ErrUnrecognizedPacketType
	}
}

// BreakpointList records breakpoint positions set by the client. The
// engine does not pause yet; the list keeps the positions so the
// frontend's breakpoint panel round-trips.
type BreakpointList struct {
	actor.Base

	mu          sync.Mutex
	breakpoints map[string]struct{}
}

func newBreakpointList(r *actor.Registry) *BreakpointList {
	b := &BreakpointList{
		Base:        actor.NewBase(r.NewName(KindBreakpointList)),
		breakpoints: make(map[string]struct{}),
	}
	r.Register(b)
	return b
}

func breakpointKey(msg map[string]any) (string, error) {
	loc, ok := msg["location"].(map[string]any)
	if !ok {
		return "", protocol.ErrMissingParameter
	}
	source, err := actor.GetString(loc, "sourceUrl")
	if err != nil {
		return "", err
	}
	line, err := actor.GetFloat(loc, "line")
	if err != nil {
		return "", err
	}
	column, err := actor.GetFloat(loc, "column")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%d", source, int(line), int(column)), nil
}

func (a *BreakpointList) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "setBreakpoint":
		key, err := breakpointKey(msg)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.breakpoints[key] = struct{}{}
		a.mu.Unlock()
		return req.Reply(EmptyReply{From: a.Name()})

	case "removeBreakpoint":
		key, err := breakpointKey(msg)
		if err != nil {
			return err
		}
		a.mu.Lock()
		delete(a.breakpoints, key)
		a.mu.Unlock()
		return req.Reply(EmptyReply{From: a.Name()})

	case "setActiveEventBreakpoints":
		return req.Reply(EmptyReply{From: a.Name()})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
