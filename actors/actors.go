// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import "github.com/tern-browser/tern/actor"

// Actor kinds. Prefixes appear verbatim in allocated names, so they
// are part of the wire surface and must stay stable across releases.
var (
	KindRoot                = actor.Kind{Prefix: "root", Singleton: true}
	KindPreference          = actor.Kind{Prefix: "preference", Singleton: true}
	KindTab                 = actor.Kind{Prefix: "tab"}
	KindTarget              = actor.Kind{Prefix: "target"}
	KindWatcher             = actor.Kind{Prefix: "watcher"}
	KindNetworkParent       = actor.Kind{Prefix: "network-parent"}
	KindThreadConfiguration = actor.Kind{Prefix: "thread-configuration"}
	KindBreakpointList      = actor.Kind{Prefix: "breakpointlist"}
	KindThread              = actor.Kind{Prefix: "thread"}
	KindSource              = actor.Kind{Prefix: "source"}
	KindPause               = actor.Kind{Prefix: "pause"}
	KindFrame               = actor.Kind{Prefix: "frame"}
	KindInspector           = actor.Kind{Prefix: "inspector"}
	KindCSSProperties       = actor.Kind{Prefix: "css-properties"}
	KindAccessibility       = actor.Kind{Prefix: "accessibility"}
	KindSimulator           = actor.Kind{Prefix: "simulator"}
	KindAccessibleWalker    = actor.Kind{Prefix: "accessible-walker"}
	KindHighlighter         = actor.Kind{Prefix: "highlighter"}
	KindFramerate           = actor.Kind{Prefix: "framerate"}
	KindWalker              = actor.Kind{Prefix: "walker"}
	KindNode                = actor.Kind{Prefix: "node"}
	KindNetworkEvent        = actor.Kind{Prefix: "netevent"}
	KindProcess             = actor.Kind{Prefix: "process"}
	KindLongString          = actor.Kind{Prefix: "long-string"}
)

// EmptyReply acknowledges an operation that carries no payload.
type EmptyReply struct {
	From string `json:"from"`
}

// ActorMsg names another actor inside a reply.
type ActorMsg struct {
	Actor string `json:"actor"`
}
