// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
)

// Process describes the browser process to clients that enumerate
// processes before picking a tab. There is exactly one, the parent;
// process-scoped debugging is not offered, so the descriptor carries
// no watcher of its own.
type Process struct {
	actor.Base
}

// ProcessMsg is the process descriptor form.
type ProcessMsg struct {
	Actor              string `json:"actor"`
	ID                 uint32 `json:"id"`
	IsParent           bool   `json:"isParent"`
	IsWindowlessParent bool   `json:"isWindowlessParent"`
	TraitsMsg          struct {
		Watcher bool `json:"watcher"`
	} `json:"traits"`
}

func newProcess(r *actor.Registry) *Process {
	p := &Process{Base: actor.NewBase(r.NewName(KindProcess))}
	r.Register(p)
	return p
}

func (a *Process) Encode() ProcessMsg {
	return ProcessMsg{Actor: a.Name(), IsParent: true}
}

func (a *Process) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "getTarget":
		return protocol.Internalf("process targets are not debuggable; use a tab descriptor")
	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
