// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// The IPC transport frames commands as CBOR envelopes over a byte
// stream, for an engine whose script side runs in a separate,
// sandboxed process. Replies are paired with requests by sequence
// number, so the page may answer out of order.

// envelope is one framed IPC message, in either direction. A request
// carries Kind and Body; a reply carries Reply=true and either Body or
// Err.
type envelope struct {
	Seq   uint64          `cbor:"seq"`
	Kind  string          `cbor:"kind,omitempty"`
	Body  cbor.RawMessage `cbor:"body,omitempty"`
	Reply bool            `cbor:"reply,omitempty"`
	Err   string          `cbor:"err,omitempty"`
}

// IPCControl is the devtools side of the IPC command transport.
type IPCControl struct {
	encMu sync.Mutex
	enc   *cbor.Encoder

	mu      sync.Mutex
	pending map[uint64]chan envelope
	nextSeq uint64
	closed  error
}

// NewIPCControl wraps a connection to the engine's script process and
// starts the reply reader. Close the underlying connection to tear the
// transport down; every pending request then fails with
// ErrControlClosed.
func NewIPCControl(conn io.ReadWriter) *IPCControl {
	c := &IPCControl{
		enc:     cbor.NewEncoder(conn),
		pending: make(map[uint64]chan envelope),
	}
	go c.readReplies(cbor.NewDecoder(conn))
	return c
}

func (c *IPCControl) readReplies(dec *cbor.Decoder) {
	for {
		var env envelope
		if err := dec.Decode(&env); err != nil {
			c.mu.Lock()
			c.closed = ErrControlClosed
			for seq, ch := range c.pending {
				close(ch)
				delete(c.pending, seq)
			}
			c.mu.Unlock()
			return
		}
		if !env.Reply {
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[env.Seq]
		delete(c.pending, env.Seq)
		c.mu.Unlock()
		if ok {
			ch <- env
			close(ch)
		}
	}
}

func (c *IPCControl) write(env envelope) error {
	c.encMu.Lock()
	defer c.encMu.Unlock()
	if err := c.enc.Encode(env); err != nil {
		return fmt.Errorf("encode command envelope: %w", err)
	}
	return nil
}

// Send delivers a fire-and-forget command.
func (c *IPCControl) Send(cmd Command) error {
	body, err := cbor.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command %s: %w", cmd.CommandKind(), err)
	}
	c.mu.Lock()
	if c.closed != nil {
		c.mu.Unlock()
		return c.closed
	}
	c.nextSeq++
	seq := c.nextSeq
	c.mu.Unlock()
	return c.write(envelope{Seq: seq, Kind: cmd.CommandKind(), Body: body})
}

// Request delivers a command and blocks for its reply.
func (c *IPCControl) Request(cmd Command) (any, error) {
	body, err := cbor.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshal command %s: %w", cmd.CommandKind(), err)
	}

	ch := make(chan envelope, 1)
	c.mu.Lock()
	if c.closed != nil {
		c.mu.Unlock()
		return nil, c.closed
	}
	c.nextSeq++
	seq := c.nextSeq
	c.pending[seq] = ch
	c.mu.Unlock()

	if err := c.write(envelope{Seq: seq, Kind: cmd.CommandKind(), Body: body}); err != nil {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
		return nil, err
	}

	env, ok := <-ch
	if !ok {
		return nil, ErrControlClosed
	}
	if env.Err != "" {
		return nil, fmt.Errorf("command %s: %s", cmd.CommandKind(), env.Err)
	}
	return decodeReply(cmd.CommandKind(), env.Body)
}

// decodeReply maps a command kind to its reply type. The IPC layer owns
// this mapping so both transports hand the same dynamic types to
// RoundTrip callers.
func decodeReply(kind string, body cbor.RawMessage) (any, error) {
	switch kind {
	case GetDocumentElement{}.CommandKind():
		var v NodeInfo
		return v, cbor.Unmarshal(body, &v)
	case GetChildren{}.CommandKind():
		var v []NodeInfo
		return v, cbor.Unmarshal(body, &v)
	case GetXPath{}.CommandKind():
		var v string
		return v, cbor.Unmarshal(body, &v)
	case GetCSSDatabase{}.CommandKind():
		var v map[string]CSSProperty
		return v, cbor.Unmarshal(body, &v)
	default:
		return nil, fmt.Errorf("command %s expects no reply", kind)
	}
}

// decodeCommand maps an envelope kind back to the command type.
func decodeCommand(kind string, body cbor.RawMessage) (Command, error) {
	var cmd Command
	switch kind {
	case GetDocumentElement{}.CommandKind():
		cmd = &GetDocumentElement{}
	case GetChildren{}.CommandKind():
		cmd = &GetChildren{}
	case GetXPath{}.CommandKind():
		cmd = &GetXPath{}
	case GetCSSDatabase{}.CommandKind():
		cmd = &GetCSSDatabase{}
	case ModifyAttribute{}.CommandKind():
		cmd = &ModifyAttribute{}
	case Reload{}.CommandKind():
		cmd = &Reload{}
	case SimulateColorScheme{}.CommandKind():
		cmd = &SimulateColorScheme{}
	case WantsLiveNotifications{}.CommandKind():
		cmd = &WantsLiveNotifications{}
	case HighlightNode{}.CommandKind():
		cmd = &HighlightNode{}
	case RequestAnimationFrame{}.CommandKind():
		cmd = &RequestAnimationFrame{}
	default:
		return nil, fmt.Errorf("unknown command kind %q", kind)
	}
	if len(body) > 0 {
		if err := cbor.Unmarshal(body, cmd); err != nil {
			return nil, fmt.Errorf("decode %s body: %w", kind, err)
		}
	}
	return cmd, nil
}

// ServeIPC runs the engine side of the IPC transport: it decodes each
// envelope, executes the command with h, and writes a reply envelope
// for round-trip commands. Returns when the connection closes. Handler
// failures travel back as reply errors; they never tear the transport
// down.
func ServeIPC(conn io.ReadWriter, h Handler) error {
	dec := cbor.NewDecoder(conn)
	enc := cbor.NewEncoder(conn)
	var encMu sync.Mutex

	for {
		var env envelope
		if err := dec.Decode(&env); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode command envelope: %w", err)
		}

		cmd, err := decodeCommand(env.Kind, env.Body)
		reply := envelope{Seq: env.Seq, Reply: true}
		if err != nil {
			reply.Err = err.Error()
		} else {
			deref := derefCommand(cmd)
			v, handleErr := h.HandleCommand(deref)
			switch {
			case handleErr != nil:
				reply.Err = handleErr.Error()
			case expectsReply(env.Kind):
				body, marshalErr := cbor.Marshal(v)
				if marshalErr != nil {
					reply.Err = marshalErr.Error()
				} else {
					reply.Body = body
				}
			default:
				// Fire-and-forget: no reply owed.
				continue
			}
		}
		encMu.Lock()
		writeErr := enc.Encode(reply)
		encMu.Unlock()
		if writeErr != nil {
			return fmt.Errorf("encode reply envelope: %w", writeErr)
		}
	}
}

// derefCommand unwraps the pointer used for decoding so handlers see
// the same value types the channel transport delivers.
func derefCommand(cmd Command) Command {
	switch c := cmd.(type) {
	case *GetDocumentElement:
		return *c
	case *GetChildren:
		return *c
	case *GetXPath:
		return *c
	case *GetCSSDatabase:
		return *c
	case *ModifyAttribute:
		return *c
	case *Reload:
		return *c
	case *SimulateColorScheme:
		return *c
	case *WantsLiveNotifications:
		return *c
	case *HighlightNode:
		return *c
	case *RequestAnimationFrame:
		return *c
	default:
		return cmd
	}
}

func expectsReply(kind string) bool {
	switch kind {
	case GetDocumentElement{}.CommandKind(),
		GetChildren{}.CommandKind(),
		GetXPath{}.CommandKind(),
		GetCSSDatabase{}.CommandKind():
		return true
	}
	return false
}
