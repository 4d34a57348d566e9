// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
)

// Watcher mediates a debugging session on one target: it hands out
// the session-scoped child actors and controls which resource types
// the client receives.
type Watcher struct {
	actor.Base
	target string

	networkParent       string
	threadConfiguration string
	breakpointList      string
}

func newWatcher(r *actor.Registry, target string) *Watcher {
	networkParent := &NetworkParent{Base: actor.NewBase(r.NewName(KindNetworkParent))}
	r.Register(networkParent)
	threadConfig := &ThreadConfiguration{Base: actor.NewBase(r.NewName(KindThreadConfiguration))}
	r.Register(threadConfig)
	breakpoints := newBreakpointList(r)

	w := &Watcher{
		Base:                actor.NewBase(r.NewName(KindWatcher)),
		target:              target,
		networkParent:       networkParent.Name(),
		threadConfiguration: threadConfig.Name(),
		breakpointList:      breakpoints.Name(),
	}
	r.Register(w)
	return w
}

type targetAvailable struct {
	From   string    `json:"from"`
	Type   string    `json:"type"`
	Target TargetMsg `json:"target"`
}

type parentBrowsingContextReply struct {
	From              string `json:"from"`
	BrowsingContextID uint32 `json:"browsingContextID"`
}

type networkParentReply struct {
	From    string   `json:"from"`
	Network ActorMsg `json:"network"`
}

type threadConfigurationReply struct {
	From          string   `json:"from"`
	Configuration ActorMsg `json:"configuration"`
}

type breakpointListReply struct {
	From           string   `json:"from"`
	BreakpointList ActorMsg `json:"breakpointList"`
}

func (a *Watcher) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "watchTargets":
		target := actor.Find[*Target](r, a.target)
		target.AttachStream(streamID, req.Stream())
		push := targetAvailable{
			From:   a.Name(),
			Type:   "target-available-form",
			Target: target.Encode(r),
		}
		if err := req.Write(push); err != nil {
			return err
		}
		return req.Reply(EmptyReply{From: a.Name()})

	case "unwatchTargets":
		return req.Reply(EmptyReply{From: a.Name()})

	case "watchResources":
		resources, err := actor.GetSlice(msg, "resourceTypes")
		if err != nil {
			return err
		}
		target := actor.Find[*Target](r, a.target)
		for _, res := range resources {
			name, ok := res.(string)
			if !ok {
				return protocol.ErrBadParameterType
			}
			// Only document events have replayable history. Network
			// events start flowing when the engine reports activity.
			if name == "document-event" {
				if err := target.replayDocumentEvents(req.Stream()); err != nil {
					return err
				}
			}
		}
		return req.Reply(EmptyReply{From: a.Name()})

	case "unwatchResources":
		return req.Reply(EmptyReply{From: a.Name()})

	case "getParentBrowsingContextID":
		target := actor.Find[*Target](r, a.target)
		return req.Reply(parentBrowsingContextReply{
			From:              a.Name(),
			BrowsingContextID: uint32(target.ContextID()),
		})

	case "getNetworkParentActor":
		return req.Reply(networkParentReply{
			From:    a.Name(),
			Network: ActorMsg{Actor: a.networkParent},
		})

	case "getThreadConfigurationActor":
		return req.Reply(threadConfigurationReply{
			From:          a.Name(),
			Configuration: ActorMsg{Actor: a.threadConfiguration},
		})

	case "getBreakpointListActor":
		return req.Reply(breakpointListReply{
			From:           a.Name(),
			BreakpointList: ActorMsg{Actor: a.breakpointList},
		})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
