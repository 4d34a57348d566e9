// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"strings"
	"sync"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/script"
)

// Walker traverses the document tree for the markup panel. Every node
// it returns is wrapped in a node actor, deduplicated through the
// registry's script bindings so repeated traversals hand back the
// same actor for the same page node.
type Walker struct {
	actor.Base
	control  script.Control
	pipeline id.PipelineID
	root     NodeMsg

	mu        sync.Mutex
	mutations []attributeMutation
}

// attributeMutation is one entry in a getMutations reply.
type attributeMutation struct {
	Target        string  `json:"target"`
	Type          string  `json:"type"`
	AttributeName string  `json:"attributeName"`
	NewValue      *string `json:"newValue"`
}

// Root returns the root node form captured when the walker was built.
func (a *Walker) Root() NodeMsg {
	return a.root
}

func (a *Walker) queueMutation(m attributeMutation) {
	a.mu.Lock()
	a.mutations = append(a.mutations, m)
	a.mu.Unlock()
}

func (a *Walker) children(r *actor.Registry, nodeActor string) ([]NodeMsg, error) {
	scriptID := r.ActorToScript(nodeActor)
	infos, err := script.RoundTrip[[]script.NodeInfo](a.control, script.GetChildren{
		Pipeline: a.pipeline,
		Node:     scriptID,
	})
	if err != nil {
		return nil, err
	}
	nodes := make([]NodeMsg, 0, len(infos))
	for _, info := range infos {
		nodes = append(nodes, encodeNode(r, a.Name(), a.pipeline, a.control, info))
	}
	return nodes, nil
}

// findDescendant searches depth first for the first node whose
// display name matches the selector. Only plain tag-name selectors
// are supported.
func (a *Walker) findDescendant(r *actor.Registry, nodeActor, selector string) (NodeMsg, bool, error) {
	children, err := a.children(r, nodeActor)
	if err != nil {
		return NodeMsg{}, false, err
	}
	for _, child := range children {
		if child.DisplayName == selector {
			return child, true, nil
		}
	}
	for _, child := range children {
		if child.NumChildren == 0 {
			continue
		}
		found, ok, err := a.findDescendant(r, child.Actor, selector)
		if err != nil || ok {
			return found, ok, err
		}
	}
	return NodeMsg{}, false, nil
}

type childrenReply struct {
	From     string    `json:"from"`
	HasFirst bool      `json:"hasFirst"`
	HasLast  bool      `json:"hasLast"`
	Nodes    []NodeMsg `json:"nodes"`
}

type nodeReply struct {
	From string  `json:"from"`
	Node NodeMsg `json:"node"`
}

type querySelectorReply struct {
	From       string  `json:"from"`
	Node       NodeMsg `json:"node"`
	NewParents []any   `json:"newParents"`
}

type mutationsReply struct {
	From      string              `json:"from"`
	Mutations []attributeMutation `json:"mutations"`
}

type offsetParentReply struct {
	From string   `json:"from"`
	Node *NodeMsg `json:"node"`
}

type rootAvailablePush struct {
	From string  `json:"from"`
	Type string  `json:"type"`
	Node NodeMsg `json:"node"`
}

type newMutationsPush struct {
	From string `json:"from"`
	Type string `json:"type"`
}

func (a *Walker) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "children":
		nodeActor, err := actor.GetString(msg, "node")
		if err != nil {
			return err
		}
		nodes, err := a.children(r, nodeActor)
		if err != nil {
			return protocol.Internal(err)
		}
		return req.Reply(childrenReply{
			From:     a.Name(),
			HasFirst: true,
			HasLast:  true,
			Nodes:    nodes,
		})

	case "documentElement":
		info, err := script.RoundTrip[script.NodeInfo](a.control, script.GetDocumentElement{Pipeline: a.pipeline})
		if err != nil {
			return protocol.Internal(err)
		}
		node := encodeNode(r, a.Name(), a.pipeline, a.control, info)
		return req.Reply(nodeReply{From: a.Name(), Node: node})

	case "querySelector":
		nodeActor, err := actor.GetString(msg, "node")
		if err != nil {
			return err
		}
		selector, err := actor.GetString(msg, "selector")
		if err != nil {
			return err
		}
		found, ok, err := a.findDescendant(r, nodeActor, strings.ToLower(selector))
		if err != nil {
			return protocol.Internal(err)
		}
		if !ok {
			return protocol.Internalf("no descendant of %s matches %q", nodeActor, selector)
		}
		return req.Reply(querySelectorReply{
			From:       a.Name(),
			Node:       found,
			NewParents: []any{},
		})

	case "getMutations":
		a.mu.Lock()
		drained := a.mutations
		a.mutations = nil
		a.mu.Unlock()
		if drained == nil {
			drained = []attributeMutation{}
		}
		return req.Reply(mutationsReply{From: a.Name(), Mutations: drained})

	case "watchRootNode":
		push := rootAvailablePush{From: a.Name(), Type: "root-available", Node: a.root}
		if err := req.Write(push); err != nil {
			return err
		}
		return req.Reply(EmptyReply{From: a.Name()})

	case "clearPseudoClassLocks":
		return req.Reply(EmptyReply{From: a.Name()})

	case "getOffsetParent":
		return req.Reply(offsetParentReply{From: a.Name()})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
