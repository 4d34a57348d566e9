// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actor

import (
	"testing"

	"github.com/tern-browser/tern/protocol"
)

func TestDispatchReply(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	a := &stubActor{
		Base: NewBase(r.NewName(testKind)),
		handle: func(req *protocol.Request, r *Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
			return req.Reply(map[string]any{"from": req.To(), "echo": msgType})
		},
	}
	r.Register(a)

	conn := &captureConn{}
	r.HandleMessage(map[string]any{"to": a.Name(), "type": "ping"}, newTestStream(conn))

	packets := conn.packets(t)
	if len(packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(packets))
	}
	if packets[0]["from"] != a.Name() || packets[0]["echo"] != "ping" {
		t.Fatalf("reply = %v", packets[0])
	}
}

func TestDispatchNoSuchActor(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	conn := &captureConn{}
	r.HandleMessage(map[string]any{"to": "ghost7", "type": "ping"}, newTestStream(conn))

	packets := conn.packets(t)
	if len(packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(packets))
	}
	if packets[0]["from"] != "ghost7" || packets[0]["error"] != "noSuchActor" {
		t.Fatalf("reply = %v", packets[0])
	}
}

func TestDispatchMissingDestinationDropped(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	conn := &captureConn{}
	r.HandleMessage(map[string]any{"type": "ping"}, newTestStream(conn))

	if packets := conn.packets(t); len(packets) != 0 {
		t.Fatalf("message without destination produced %v", packets)
	}
}

func TestDispatchUnrecognizedPacketType(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	a := &stubActor{Base: NewBase(r.NewName(testKind))}
	r.Register(a)

	conn := &captureConn{}
	r.HandleMessage(map[string]any{"to": a.Name(), "type": "noSuchOperation"}, newTestStream(conn))

	packets := conn.packets(t)
	if len(packets) != 1 || packets[0]["error"] != "unrecognizedPacketType" {
		t.Fatalf("reply = %v", packets)
	}
}

func TestDispatchHandlerErrorNames(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	a := &stubActor{
		Base: NewBase(r.NewName(testKind)),
		handle: func(req *protocol.Request, r *Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
			switch msgType {
			case "missing":
				return protocol.ErrMissingParameter
			case "badType":
				return protocol.ErrBadParameterType
			default:
				return protocol.Internalf("unexpected failure")
			}
		},
	}
	r.Register(a)

	cases := []struct {
		msgType string
		want    string
	}{
		{"missing", "missingParameter"},
		{"badType", "badParameterType"},
		{"boom", ""},
	}
	for _, tc := range cases {
		conn := &captureConn{}
		r.HandleMessage(map[string]any{"to": a.Name(), "type": tc.msgType}, newTestStream(conn))
		packets := conn.packets(t)
		if len(packets) != 1 {
			t.Fatalf("%s: got %d packets, want 1", tc.msgType, len(packets))
		}
		if packets[0]["error"] != tc.want {
			t.Fatalf("%s: error name = %v, want %q", tc.msgType, packets[0]["error"], tc.want)
		}
	}
}

func TestDispatchHandlerPanicConfined(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	panicky := &stubActor{
		Base: NewBase(r.NewName(testKind)),
		handle: func(req *protocol.Request, r *Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
			Find[*stubActor](r, "not-registered")
			return nil
		},
	}
	r.Register(panicky)
	healthy := &stubActor{
		Base: NewBase(r.NewName(testKind)),
		handle: func(req *protocol.Request, r *Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
			return req.Reply(map[string]any{"from": req.To()})
		},
	}
	r.Register(healthy)

	conn := &captureConn{}
	stream := newTestStream(conn)
	r.HandleMessage(map[string]any{"to": panicky.Name(), "type": "explode"}, stream)
	r.HandleMessage(map[string]any{"to": healthy.Name(), "type": "ping"}, stream)

	packets := conn.packets(t)
	if len(packets) != 2 {
		t.Fatalf("got %d packets, want 2", len(packets))
	}
	if packets[0]["error"] != "" {
		t.Fatalf("panic reply = %v, want the reserved empty error name", packets[0])
	}
	if packets[1]["from"] != healthy.Name() {
		t.Fatalf("dispatch after a panic failed: %v", packets[1])
	}
}

func TestDispatchSilentHandlerIsInternalFault(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	a := &stubActor{
		Base: NewBase(r.NewName(testKind)),
		handle: func(req *protocol.Request, r *Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
			return nil // no reply issued
		},
	}
	r.Register(a)

	conn := &captureConn{}
	r.HandleMessage(map[string]any{"to": a.Name(), "type": "ping"}, newTestStream(conn))

	packets := conn.packets(t)
	if len(packets) != 1 || packets[0]["error"] != "" {
		t.Fatalf("reply = %v, want an internal-fault error reply", packets)
	}
}

func TestDispatchCommitsDeferredRegistrations(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	var childName string
	parent := &stubActor{
		Base: NewBase(r.NewName(testKind)),
		handle: func(req *protocol.Request, reg *Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
			childName = reg.RegisterLater(testKind, func(name string) Actor {
				return &stubActor{Base: NewBase(name)}
			})
			if _, visible := reg.Get(childName); visible {
				return protocol.Internalf("deferred child visible mid-pass")
			}
			return req.Reply(map[string]any{"from": req.To(), "child": childName})
		},
	}
	r.Register(parent)

	conn := &captureConn{}
	r.HandleMessage(map[string]any{"to": parent.Name(), "type": "spawn"}, newTestStream(conn))

	packets := conn.packets(t)
	if len(packets) != 1 || packets[0]["child"] != childName {
		t.Fatalf("reply = %v", packets)
	}
	if _, ok := r.Get(childName); !ok {
		t.Fatal("deferred child not committed after the pass")
	}
}

func TestDispatchCommitsDeferredEvenOnError(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	var childName string
	parent := &stubActor{
		Base: NewBase(r.NewName(testKind)),
		handle: func(req *protocol.Request, reg *Registry, msgType string, msg map[string]any, streamID protocol.StreamID) error {
			childName = reg.RegisterLater(testKind, func(name string) Actor {
				return &stubActor{Base: NewBase(name)}
			})
			return protocol.Internalf("handler failed after staging")
		},
	}
	r.Register(parent)

	r.HandleMessage(map[string]any{"to": parent.Name(), "type": "spawn"}, newTestStream(&captureConn{}))
	if _, ok := r.Get(childName); !ok {
		t.Fatal("deferred registration lost when the handler failed")
	}
}
