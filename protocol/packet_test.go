// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func TestPacketRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sent := map[string]any{"to": "root", "type": "listTabs"}
	if err := WritePacket(&buf, sent); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}

	// The frame is the decimal body length, a colon, then the body.
	frame := buf.String()
	colon := strings.IndexByte(frame, ':')
	if colon < 1 {
		t.Fatalf("frame %q has no length prefix", frame)
	}
	prefix, err := strconv.Atoi(frame[:colon])
	if err != nil || prefix != len(frame)-colon-1 {
		t.Fatalf("length prefix %q does not match body length %d", frame[:colon], len(frame)-colon-1)
	}

	got, err := ReadPacket(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if got["to"] != "root" || got["type"] != "listTabs" {
		t.Fatalf("round trip produced %v", got)
	}
}

// writeRecorder captures each Write call as its own slice, the way a
// message-oriented transport would frame them.
type writeRecorder struct {
	writes [][]byte
}

func (w *writeRecorder) Write(p []byte) (int, error) {
	w.writes = append(w.writes, append([]byte(nil), p...))
	return len(p), nil
}

func TestWritePacketSingleWrite(t *testing.T) {
	t.Parallel()

	// Transports that map one Write to one message (WebSocket) must see
	// the whole frame at once, never a bare length prefix.
	var rec writeRecorder
	if err := WritePacket(&rec, map[string]any{"from": "root"}); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	if len(rec.writes) != 1 {
		t.Fatalf("frame split across %d writes", len(rec.writes))
	}
	frame := string(rec.writes[0])
	colon := strings.IndexByte(frame, ':')
	if colon < 1 {
		t.Fatalf("frame %q has no length prefix", frame)
	}
	if prefix, err := strconv.Atoi(frame[:colon]); err != nil || prefix != len(frame)-colon-1 {
		t.Fatalf("frame %q prefix does not cover its body", frame)
	}
}

func TestPacketSequence(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	for _, msgType := range []string{"first", "second", "third"} {
		if err := WritePacket(&buf, map[string]any{"type": msgType}); err != nil {
			t.Fatalf("WritePacket(%s): %v", msgType, err)
		}
	}
	reader := bufio.NewReader(&buf)
	for _, want := range []string{"first", "second", "third"} {
		msg, err := ReadPacket(reader)
		if err != nil {
			t.Fatalf("ReadPacket: %v", err)
		}
		if msg["type"] != want {
			t.Fatalf("got packet type %v, want %s", msg["type"], want)
		}
	}
}

func TestReadPacketRejectsMalformedHeader(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
	}{
		{"no digits", ":{}"},
		{"non-digit", "12a:{}"},
		{"too many digits", "123456789:{}"},
		{"over maximum", "99999999:{}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadPacket(bufio.NewReader(strings.NewReader(tc.input)))
			if err == nil {
				t.Fatalf("ReadPacket accepted %q", tc.input)
			}
		})
	}
}

func TestReadPacketRejectsNonObject(t *testing.T) {
	t.Parallel()

	_, err := ReadPacket(bufio.NewReader(strings.NewReader(`7:"hello"`)))
	if err == nil {
		t.Fatal("ReadPacket accepted a non-object payload")
	}
}

func TestReadPacketTruncatedBody(t *testing.T) {
	t.Parallel()

	_, err := ReadPacket(bufio.NewReader(strings.NewReader("10:{}")))
	if err == nil {
		t.Fatal("ReadPacket accepted a truncated body")
	}
}
