// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"strings"

	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/id"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/script"
)

// DOM node type constants matching the DOM specification.
const (
	nodeTypeElement  = 1
	nodeTypeText     = 3
	nodeTypeDocument = 9
)

// Node wraps one page-side DOM node. Node actors are created through
// the registry's script bindings, so one page node maps to exactly
// one actor for its lifetime.
type Node struct {
	actor.Base
	walker      string
	displayName string
}

// NodeMsg is the node form used throughout the markup panel protocol.
type NodeMsg struct {
	Actor                   string    `json:"actor"`
	Host                    string    `json:"host,omitempty"`
	BaseURI                 string    `json:"baseURI"`
	CausesOverflow          bool      `json:"causesOverflow"`
	ContainerType           *string   `json:"containerType"`
	DisplayName             string    `json:"displayName"`
	DisplayType             string    `json:"displayType"`
	InlineTextChild         *NodeMsg  `json:"inlineTextChild,omitempty"`
	IsAfterPseudoElement    bool      `json:"isAfterPseudoElement"`
	IsAnonymous             bool      `json:"isAnonymous"`
	IsBeforePseudoElement   bool      `json:"isBeforePseudoElement"`
	IsDirectShadowHostChild bool      `json:"isDirectShadowHostChild"`
	IsDisplayed             bool      `json:"isDisplayed"`
	IsInHTMLDocument        bool      `json:"isInHTMLDocument"`
	IsMarkerPseudoElement   bool      `json:"isMarkerPseudoElement"`
	IsNativeAnonymous       bool      `json:"isNativeAnonymous"`
	IsScrollable            bool      `json:"isScrollable"`
	IsShadowHost            bool      `json:"isShadowHost"`
	IsShadowRoot            bool      `json:"isShadowRoot"`
	IsTopLevelDocument      bool      `json:"isTopLevelDocument"`
	NodeName                string    `json:"nodeName"`
	NodeType                uint16    `json:"nodeType"`
	NodeValue               string    `json:"nodeValue"`
	NumChildren             int       `json:"numChildren"`
	Parent                  string    `json:"parent,omitempty"`
	ShadowRootMode          string    `json:"shadowRootMode,omitempty"`
	Tr                      struct{}  `json:"traits"`
	Attrs                   []AttrMsg `json:"attrs"`
	DoctypeName             *string   `json:"name,omitempty"`
	DoctypePublicID         *string   `json:"publicId,omitempty"`
	DoctypeSystemID         *string   `json:"systemId,omitempty"`
}

type AttrMsg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// encodeNode wraps a page node description in its (deduplicated)
// actor and builds the wire form. A lone text child of an element is
// inlined so the markup panel can render <tag>text</tag> on one row.
func encodeNode(r *actor.Registry, walker string, pipeline id.PipelineID, ctrl script.Control, info script.NodeInfo) NodeMsg {
	displayName := strings.ToLower(info.NodeName)
	name := r.GetOrRegisterScriptActor(info.UniqueID, KindNode, func(actorName string) actor.Actor {
		return &Node{
			Base:        actor.NewBase(actorName),
			walker:      walker,
			displayName: displayName,
		}
	})

	parent := ""
	if info.Parent != "" {
		if r.ScriptActorRegistered(info.Parent) {
			parent = r.ScriptToActor(info.Parent)
		}
	}

	msg := NodeMsg{
		Actor:              name,
		Host:               hostActor(r, info.Host),
		BaseURI:            info.BaseURI,
		DisplayName:        displayName,
		DisplayType:        info.Display,
		IsDisplayed:        info.IsDisplayed,
		IsInHTMLDocument:   true,
		IsShadowHost:       info.IsShadowHost,
		IsShadowRoot:       info.ShadowRootMode != "",
		IsTopLevelDocument: info.IsTopLevelDoc,
		NodeName:           info.NodeName,
		NodeType:           info.NodeType,
		NodeValue:          info.NodeValue,
		NumChildren:        info.NumChildren,
		Parent:             parent,
		ShadowRootMode:     info.ShadowRootMode,
		Attrs:              make([]AttrMsg, 0, len(info.Attrs)),
		DoctypeName:        info.DoctypeName,
		DoctypePublicID:    info.DoctypePublicID,
		DoctypeSystemID:    info.DoctypeSystemID,
	}
	for _, attr := range info.Attrs {
		msg.Attrs = append(msg.Attrs, AttrMsg{Name: attr.Name, Value: attr.Value})
	}

	if info.NodeType == nodeTypeElement && info.NumChildren == 1 {
		if child, ok := soleTextChild(ctrl, pipeline, info.UniqueID); ok {
			inlined := encodeNode(r, walker, pipeline, ctrl, child)
			msg.InlineTextChild = &inlined
		}
	}
	return msg
}

func hostActor(r *actor.Registry, host string) string {
	if host == "" || !r.ScriptActorRegistered(host) {
		return ""
	}
	return r.ScriptToActor(host)
}

func soleTextChild(ctrl script.Control, pipeline id.PipelineID, node string) (script.NodeInfo, bool) {
	children, err := script.RoundTrip[[]script.NodeInfo](ctrl, script.GetChildren{
		Pipeline: pipeline,
		Node:     node,
	})
	if err != nil || len(children) != 1 || children[0].NodeType != nodeTypeText {
		return script.NodeInfo{}, false
	}
	return children[0], true
}

type uniqueSelectorReply struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

type xpathReply struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

func (a *Node) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "modifyAttributes":
		mods, err := actor.GetSlice(msg, "modifications")
		if err != nil {
			return err
		}
		w := actor.Find[*Walker](r, a.walker)
		scriptID := r.ActorToScript(a.Name())
		var applied []script.AttrModification
		for _, raw := range mods {
			m, ok := raw.(map[string]any)
			if !ok {
				return protocol.ErrBadParameterType
			}
			attrName, err := actor.GetString(m, "attributeName")
			if err != nil {
				return err
			}
			mod := script.AttrModification{AttributeName: attrName}
			if v, ok := m["newValue"].(string); ok {
				mod.NewValue = &v
			}
			applied = append(applied, mod)
		}
		if err := w.control.Send(script.ModifyAttribute{
			Pipeline:      w.pipeline,
			Node:          scriptID,
			Modifications: applied,
		}); err != nil {
			return protocol.Internal(err)
		}
		for _, mod := range applied {
			w.queueMutation(attributeMutation{
				Target:        a.Name(),
				Type:          "attributes",
				AttributeName: mod.AttributeName,
				NewValue:      mod.NewValue,
			})
		}
		if err := req.Write(newMutationsPush{From: a.walker, Type: "newMutations"}); err != nil {
			return err
		}
		return req.Reply(EmptyReply{From: a.Name()})

	case "getUniqueSelector":
		return req.Reply(uniqueSelectorReply{From: a.Name(), Value: a.displayName})

	case "getXPath":
		w := actor.Find[*Walker](r, a.walker)
		xpath, err := script.RoundTrip[string](w.control, script.GetXPath{
			Pipeline: w.pipeline,
			Node:     r.ActorToScript(a.Name()),
		})
		if err != nil {
			return protocol.Internal(err)
		}
		return req.Reply(xpathReply{From: a.Name(), Value: xpath})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
