// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"strings"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/script"
)

// Highlighter outlines the node the inspector is hovering. The page
// applies and clears the outline; the actor translates node actor
// names back to page-side identities.
type Highlighter struct {
	actor.Base
	target string
}

type highlighterShowReply struct {
	From  string `json:"from"`
	Value bool   `json:"value"`
}

func (a *Highlighter) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	target := actor.Find[*Target](r, a.target)
	switch msgType {
	case "show":
		node, err := actor.GetString(msg, "node")
		if err != nil {
			return err
		}
		// The frontend asks to highlight the inspector itself when the
		// panel opens; there is no node to outline.
		if strings.HasPrefix(node, KindInspector.Prefix) {
			return req.Reply(highlighterShowReply{From: a.Name(), Value: false})
		}
		err = target.Control().Send(script.HighlightNode{
			Pipeline: target.Pipeline(),
			Node:     r.ActorToScript(node),
		})
		if err != nil {
			return protocol.Internal(err)
		}
		return req.Reply(highlighterShowReply{From: a.Name(), Value: true})

	case "hide":
		err := target.Control().Send(script.HighlightNode{Pipeline: target.Pipeline()})
		if err != nil {
			return protocol.Internal(err)
		}
		return req.Reply(EmptyReply{From: a.Name()})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
