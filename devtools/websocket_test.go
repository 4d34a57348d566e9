// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package devtools

import (
	"bufio"
	"context"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/tern-browser/tern/protocol"
)

func TestWebSocketTransport(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.HandleEvent(newGlobal(startEngine(t)))

	httpServer := httptest.NewServer(s.WebSocketHandler())
	t.Cleanup(httpServer.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	wsURL := "ws://" + strings.TrimPrefix(httpServer.URL, "http://")
	c, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	conn := websocket.NetConn(ctx, c, websocket.MessageText)
	t.Cleanup(func() { conn.Close() })

	reader := bufio.NewReader(conn)
	greeting, err := protocol.ReadPacket(reader)
	if err != nil {
		t.Fatalf("greeting read failed: %v", err)
	}
	if greeting["from"] != "root" {
		t.Fatalf("greeting = %v", greeting)
	}

	if err := protocol.WritePacket(conn, map[string]any{"to": "root", "type": "listTabs"}); err != nil {
		t.Fatalf("listTabs write failed: %v", err)
	}
	msg, err := protocol.ReadPacket(reader)
	if err != nil {
		t.Fatalf("listTabs read failed: %v", err)
	}
	tabs, _ := msg["tabs"].([]any)
	if len(tabs) != 1 {
		t.Fatalf("listTabs over websocket = %v", msg)
	}
}

func TestWebSocketMessagePerPacket(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	httpServer := httptest.NewServer(s.WebSocketHandler())
	t.Cleanup(httpServer.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	wsURL := "ws://" + strings.TrimPrefix(httpServer.URL, "http://")
	c, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })

	// A frontend that parses message by message must get the greeting
	// as one message holding one whole frame, not a bare length prefix.
	_, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("greeting message read failed: %v", err)
	}
	frame := string(data)
	colon := strings.IndexByte(frame, ':')
	if colon < 1 {
		t.Fatalf("greeting message %q has no length prefix", frame)
	}
	prefix, err := strconv.Atoi(frame[:colon])
	if err != nil || prefix != len(frame)-colon-1 {
		t.Fatalf("greeting message %q is not one complete frame", frame)
	}

	msg, err := protocol.ReadPacket(bufio.NewReader(strings.NewReader(frame)))
	if err != nil {
		t.Fatalf("greeting frame did not parse: %v", err)
	}
	if msg["from"] != "root" {
		t.Fatalf("greeting = %v", msg)
	}
}
