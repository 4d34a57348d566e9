// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bufio"
	"io"
	"sync"
)

// StreamID identifies one attached debugger connection for the lifetime
// of the server. Actors track interested streams by id so that a
// disconnect can shed exactly that connection's state.
type StreamID uint32

// Stream is one attached debugger connection. Writes from any goroutine
// are serialized, so packets issued by a handler and packets issued by
// a broadcast never interleave mid-frame; reads belong to the single
// connection goroutine that owns the stream.
type Stream struct {
	id     StreamID
	conn   io.ReadWriteCloser
	reader *bufio.Reader

	writeMu sync.Mutex
}

// NewStream wraps a connection. The id must be unique among live
// connections; the server allocates them from a counter.
func NewStream(id StreamID, conn io.ReadWriteCloser) *Stream {
	return &Stream{
		id:     id,
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// ID returns the stream's connection identifier.
func (s *Stream) ID() StreamID {
	return s.id
}

// WritePacket frames and writes one JSON packet. Safe for concurrent
// use; per-stream delivery order is the order of WritePacket calls.
func (s *Stream) WritePacket(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return WritePacket(s.conn, v)
}

// ReadPacket reads the next inbound packet. Not safe for concurrent
// use; only the connection goroutine reads.
func (s *Stream) ReadPacket() (map[string]any, error) {
	return ReadPacket(s.reader)
}

// Close closes the underlying connection. Any blocked ReadPacket
// returns with an error.
func (s *Stream) Close() error {
	return s.conn.Close()
}
