// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"sync"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/script"
)

// Inspector hands out the walker and highlighter for one target. The
// walker is built lazily on first request because it needs the current
// document's root element from the page.
type Inspector struct {
	actor.Base
	target string

	mu          sync.Mutex
	walker      string
	highlighter string
}

func newInspector(r *actor.Registry, target string) *Inspector {
	i := &Inspector{
		Base:   actor.NewBase(r.NewName(KindInspector)),
		target: target,
	}
	r.Register(i)
	return i
}

// WalkerMsg is the walker form inside getWalker replies.
type WalkerMsg struct {
	Actor string   `json:"actor"`
	Root  NodeMsg  `json:"root"`
	Tr    struct{} `json:"traits"`
}

type getWalkerReply struct {
	From   string    `json:"from"`
	Walker WalkerMsg `json:"walker"`
}

type getHighlighterReply struct {
	From        string   `json:"from"`
	Highlighter ActorMsg `json:"highlighter"`
}

func (a *Inspector) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "getWalker":
		target := actor.Find[*Target](r, a.target)
		pipeline := target.Pipeline()
		ctrl := target.Control()

		a.mu.Lock()
		name := a.walker
		a.mu.Unlock()
		if name != "" {
			w := actor.Find[*Walker](r, name)
			return req.Reply(getWalkerReply{
				From:   a.Name(),
				Walker: WalkerMsg{Actor: name, Root: w.Root()},
			})
		}

		info, err := script.RoundTrip[script.NodeInfo](ctrl, script.GetDocumentElement{Pipeline: pipeline})
		if err != nil {
			return protocol.Internal(err)
		}
		var root NodeMsg
		name = r.RegisterLater(KindWalker, func(walkerName string) actor.Actor {
			root = encodeNode(r, walkerName, pipeline, ctrl, info)
			return &Walker{
				Base:     actor.NewBase(walkerName),
				control:  ctrl,
				pipeline: pipeline,
				root:     root,
			}
		})
		a.mu.Lock()
		a.walker = name
		a.mu.Unlock()
		return req.Reply(getWalkerReply{
			From:   a.Name(),
			Walker: WalkerMsg{Actor: name, Root: root},
		})

	case "getHighlighterByType":
		if _, err := actor.GetString(msg, "typeName"); err != nil {
			return err
		}
		a.mu.Lock()
		name := a.highlighter
		a.mu.Unlock()
		if name == "" {
			name = r.RegisterLater(KindHighlighter, func(name string) actor.Actor {
				return &Highlighter{Base: actor.NewBase(name), target: a.target}
			})
			a.mu.Lock()
			a.highlighter = name
			a.mu.Unlock()
		}
		return req.Reply(getHighlighterReply{From: a.Name(), Highlighter: ActorMsg{Actor: name}})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}

// CSSProperties serves the engine's CSS property database so the
// rules panel knows which properties and values the engine supports.
type CSSProperties struct {
	actor.Base
	control script.Control
}

func newCSSProperties(r *actor.Registry, ctrl script.Control) *CSSProperties {
	c := &CSSProperties{
		Base:    actor.NewBase(r.NewName(KindCSSProperties)),
		control: ctrl,
	}
	r.Register(c)
	return c
}

type cssDatabaseReply struct {
	From       string                        `json:"from"`
	Properties map[string]script.CSSProperty `json:"properties"`
}

func (a *CSSProperties) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "getCSSDatabase":
		db, err := script.RoundTrip[map[string]script.CSSProperty](a.control, script.GetCSSDatabase{})
		if err != nil {
			return protocol.Internal(err)
		}
		return req.Reply(cssDatabaseReply{From: a.Name(), Properties: db})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
