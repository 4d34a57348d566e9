// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"github.com/tern-browser/tern/actor"
	"github.com/tern-browser/tern/protocol"
)

// Strings up to this many characters travel inline; longer ones are
// wrapped in a long-string actor the client pages through.
const longStringInitial = 500

// LongString serves substring requests for one oversized string.
// Lengths and offsets are in characters, not bytes.
type LongString struct {
	actor.Base
	full []rune
}

// LongStringMsg is the grip embedded in place of the plain string.
type LongStringMsg struct {
	Type    string `json:"type"`
	Actor   string `json:"actor"`
	Length  int    `json:"length"`
	Initial string `json:"initial"`
}

func newLongString(r *actor.Registry, full string) *LongString {
	ls := &LongString{
		Base: actor.NewBase(r.NewName(KindLongString)),
		full: []rune(full),
	}
	r.Register(ls)
	return ls
}

func (a *LongString) Encode() LongStringMsg {
	initial := a.full
	if len(initial) > longStringInitial {
		initial = initial[:longStringInitial]
	}
	return LongStringMsg{
		Type:    "longString",
		Actor:   a.Name(),
		Length:  len(a.full),
		Initial: string(initial),
	}
}

// stringOrLongString picks the wire form for a string value, creating
// a long-string actor when the value exceeds the inline limit.
func stringOrLongString(r *actor.Registry, s string) any {
	runes := []rune(s)
	if len(runes) <= longStringInitial {
		return s
	}
	return newLongString(r, s).Encode()
}

type substringReply struct {
	From      string `json:"from"`
	Substring string `json:"substring"`
}

func (a *LongString) HandleMessage(req *protocol.Request, r *actor.Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
	switch msgType {
	case "substring":
		start, err := actor.GetFloat(msg, "start")
		if err != nil {
			return err
		}
		end, err := actor.GetFloat(msg, "end")
		if err != nil {
			return err
		}
		s, e := int(start), int(end)
		if s < 0 || e < s || e > len(a.full) {
			return protocol.Internalf("substring range [%d, %d) out of bounds for length %d", s, e, len(a.full))
		}
		return req.Reply(substringReply{From: a.Name(), Substring: string(a.full[s:e])})

	case "release":
		r.DropActorLater(a.Name())
		return req.Reply(EmptyReply{From: a.Name()})

	default:
		return protocol.ErrUnrecognizedPacketType
	}
}
