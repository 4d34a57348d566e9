// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
)

// Accessibility backs the frontend's accessibility panel. The panel
// requires the actor family to exist before it renders; the simulator
// and accessible walker it hands out are placeholders until the engine
// exposes an accessibility tree.
type Accessibility struct {
	actor.Base
}

func newAccessibility(r *actor.Registry) *Accessibility {
	a := &Accessibility{Base: actor.NewBase(r.NewName(KindAccessibility))}
	r.Register(a)
	return a
}

type bootstrapReply struct {
	From  string `json:"from"`
	State struct {
		Enabled bool `json:"enabled"`
	} `json:"state"`
}

type getSimulatorReply struct {
	From      string `json:"from"`
	Simulator string `json:"actor"`
}

type accessibilityTraitsReply struct {
	From   string `json:"from"`
	Traits struct {
		TabbingOrder bool `json:"tabbingOrder"`
	} `json:"traits"`
}

type getAccessibleWalkerReply struct {
	From   string `json:"from"`
	Walker string `json:"actor"`
}

func (a *Accessibility) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "bootstrap":
		return req.Reply(bootstrapReply{From: a.Name()})

	case "getSimulator":
		name := r.RegisterLater(KindSimulator, func(name string) actor.Actor {
			return &Simulator{Base: actor.NewBase(name)}
		})
		return req.Reply(getSimulatorReply{From: a.Name(), Simulator: name})

	case "getTraits":
		reply := accessibilityTraitsReply{From: a.Name()}
		reply.Traits.TabbingOrder = true
		return req.Reply(reply)

	case "getWalker":
		name := r.RegisterLater(KindAccessibleWalker, func(name string) actor.Actor {
			return &AccessibleWalker{Base: actor.NewBase(name)}
		})
		return req.Reply(getAccessibleWalkerReply{From: a.Name(), Walker: name})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}

// Simulator is the accessibility panel's vision-deficiency simulator.
// A pure wire reference until the engine can apply color filters.
type Simulator struct {
	actor.Base
}

// AccessibleWalker walks the accessibility tree. Distinct from the
// inspector's DOM walker; a pure wire reference for now.
type AccessibleWalker struct {
	actor.Base
}
