// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

// Request is the reply handle bound to exactly one inbound message. A
// handler issues at most one final reply with Reply, optionally
// preceded by preliminary packets written with Write (multi-packet
// responses such as "push a notification, then acknowledge").
//
// The dispatcher checks Replied after the handler returns: success
// without a final reply is an internal fault, because the client is
// left waiting on a request that will never resolve.
type Request struct {
	stream  *Stream
	to      string
	replied bool
}

// NewRequest binds a reply handle for a message addressed to the named
// actor on the given stream.
func NewRequest(stream *Stream, to string) *Request {
	return &Request{stream: stream, to: to}
}

// Write pushes a preliminary packet on the request's stream before the
// final reply. A write failure is an internal fault.
func (r *Request) Write(v any) error {
	if err := r.stream.WritePacket(v); err != nil {
		return Internal(err)
	}
	return nil
}

// Reply sends the final reply. The reply object must carry its own
// "from" field; the protocol correlates replies by actor name, not by
// sequence number. Calling Reply twice on one request is a defect in
// the handler, not a client-triggerable condition.
func (r *Request) Reply(v any) error {
	if r.replied {
		panic("protocol: second final reply on one request")
	}
	r.replied = true
	if err := r.stream.WritePacket(v); err != nil {
		return Internal(err)
	}
	return nil
}

// Replied reports whether the final reply has been sent.
func (r *Request) Replied() bool {
	return r.replied
}

// Stream returns the stream the request arrived on, for handlers that
// attach the connection to an actor's broadcast set.
func (r *Request) Stream() *Stream {
	return r.stream
}

// To returns the destination actor name from the inbound message.
func (r *Request) To() string {
	return r.to
}
