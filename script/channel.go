// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"errors"
	"fmt"
)

// ErrControlClosed reports a command channel whose page side has gone
// away. Handlers surface it as an internal fault.
var ErrControlClosed = errors.New("script: control channel closed")

// controlRequest carries one command to the page side. Reply is nil for
// fire-and-forget commands; otherwise the page sends exactly one value
// and closes the channel, or closes it without a value to report
// failure.
type controlRequest struct {
	cmd   Command
	reply chan any
}

// ChannelControl is the in-process command transport: commands travel
// over a Go channel to an engine linked into the same binary.
type ChannelControl struct {
	requests chan controlRequest
	done     chan struct{}
}

// NewChannelControl creates the transport. The returned control is the
// devtools side; the engine consumes from the paired receive side via
// Serve or its own loop. Close the control when the page goes away.
func NewChannelControl(buffer int) *ChannelControl {
	return &ChannelControl{
		requests: make(chan controlRequest, buffer),
		done:     make(chan struct{}),
	}
}

// Send delivers a fire-and-forget command.
func (c *ChannelControl) Send(cmd Command) error {
	select {
	case c.requests <- controlRequest{cmd: cmd}:
		return nil
	case <-c.done:
		return ErrControlClosed
	}
}

// Request delivers a command and blocks for its single reply. A reply
// channel closed without a value means the collaborator could not
// answer, which the caller reports as an internal fault.
func (c *ChannelControl) Request(cmd Command) (any, error) {
	reply := make(chan any, 1)
	select {
	case c.requests <- controlRequest{cmd: cmd, reply: reply}:
	case <-c.done:
		return nil, ErrControlClosed
	}
	select {
	case v, ok := <-reply:
		if !ok {
			return nil, fmt.Errorf("command %s: collaborator closed reply channel without answering", cmd.CommandKind())
		}
		return v, nil
	case <-c.done:
		return nil, ErrControlClosed
	}
}

// Close marks the page side gone. Blocked and future calls return
// ErrControlClosed. Idempotent.
func (c *ChannelControl) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// Handler is the engine-side command executor. A nil result with a nil
// error is a valid answer for commands whose reply is optional.
type Handler interface {
	HandleCommand(cmd Command) (any, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(cmd Command) (any, error)

func (f HandlerFunc) HandleCommand(cmd Command) (any, error) {
	return f(cmd)
}

// Serve runs the engine side of a ChannelControl: it executes each
// command with h and answers round-trip commands on their reply
// channels. Returns when the control is closed. Meant to run on its own
// goroutine; the demo engine and the tests use it directly.
func (c *ChannelControl) Serve(h Handler) {
	for {
		select {
		case req := <-c.requests:
			v, err := h.HandleCommand(req.cmd)
			if req.reply == nil {
				continue
			}
			if err != nil {
				close(req.reply)
				continue
			}
			req.reply <- v
			close(req.reply)
		case <-c.done:
			return
		}
	}
}
