// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/prefs"
	"github.com/tern-browser/tern/protocol"
)

// Preference exposes the browser preference store to the client. An
// unknown preference yields the zero value of the requested type, so
// the frontend can probe freely.
type Preference struct {
	actor.Base
	store *prefs.Store
}

// NewPreference registers the preference singleton.
func NewPreference(r *actor.Registry, store *prefs.Store) *Preference {
	p := &Preference{
		Base:  actor.NewBase(r.NewName(KindPreference)),
		store: store,
	}
	r.Register(p)
	return p
}

type boolPrefReply struct {
	From  string `json:"from"`
	Value bool   `json:"value"`
}

type charPrefReply struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

type intPrefReply struct {
	From  string `json:"from"`
	Value int64  `json:"value"`
}

type floatPrefReply struct {
	From  string  `json:"from"`
	Value float64 `json:"value"`
}

func (a *Preference) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	name, err := actor.GetString(msg, "value")
	if err != nil {
		return err
	}
	switch msgType {
	case "getBoolPref":
		return req.Reply(boolPrefReply{From: a.Name(), Value: a.store.GetBool(name, false)})
	case "getCharPref":
		return req.Reply(charPrefReply{From: a.Name(), Value: a.store.GetString(name, "")})
	case "getIntPref":
		return req.Reply(intPrefReply{From: a.Name(), Value: a.store.GetInt(name, 0)})
	case "getFloatPref":
		return req.Reply(floatPrefReply{From: a.Name(), Value: a.store.GetFloat(name, 0)})
	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
