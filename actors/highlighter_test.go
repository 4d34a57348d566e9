// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"strings"
	"testing"
	"time"

	"github.com/tern-browser/tern/lib/testutil"
	"github.com/tern-browser/tern/protocol"
	"github.com/tern-browser/tern/script"
)

// getHighlighter resolves the highlighter through the inspector.
func getHighlighter(t *testing.T, f *fixture, stream *protocol.Stream, conn *captureConn) string {
	t.Helper()
	inspector := f.target.Encode(f.registry).InspectorActor
	msg := reply(t, f.dispatch(t, stream, conn, inspector, "getHighlighterByType",
		map[string]any{"typeName": "BoxModelHighlighter"}))
	form, _ := msg["highlighter"].(map[string]any)
	name, _ := form["actor"].(string)
	if !strings.HasPrefix(name, KindHighlighter.Prefix) {
		t.Fatalf("getHighlighterByType reply = %v", msg)
	}
	return name
}

func TestGetHighlighterIsStable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)

	name := getHighlighter(t, f, stream, conn)
	if again := getHighlighter(t, f, stream, conn); again != name {
		t.Fatalf("second getHighlighterByType returned %q, first returned %q", again, name)
	}

	inspector := f.target.Encode(f.registry).InspectorActor
	missing := f.dispatch(t, stream, conn, inspector, "getHighlighterByType", nil)
	if reply(t, missing)["error"] != "missingParameter" {
		t.Fatalf("reply without typeName = %v", missing)
	}
}

func TestHighlighterShowAndHide(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)
	highlighter := getHighlighter(t, f, stream, conn)
	_, root := getWalker(t, f, stream, conn)

	// The frontend's opening request names the inspector, not a node.
	msg := reply(t, f.dispatch(t, stream, conn, highlighter, "show",
		map[string]any{"node": f.target.Encode(f.registry).InspectorActor}))
	if msg["value"] != false {
		t.Fatalf("show(inspector) reply = %v", msg)
	}

	msg = reply(t, f.dispatch(t, stream, conn, highlighter, "show",
		map[string]any{"node": root["actor"]}))
	if msg["value"] != true {
		t.Fatalf("show reply = %v", msg)
	}
	// Only the node show reaches the page; the inspector one sent
	// nothing, so the first command is the real highlight.
	cmd := testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for the highlight command")
	highlight, ok := cmd.(script.HighlightNode)
	if !ok || highlight.Node != "n-html" {
		t.Fatalf("page received %#v", cmd)
	}

	msg = reply(t, f.dispatch(t, stream, conn, highlighter, "hide", nil))
	if msg["from"] != highlighter {
		t.Fatalf("hide reply = %v", msg)
	}
	cmd = testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for the unhighlight command")
	if highlight, ok := cmd.(script.HighlightNode); !ok || highlight.Node != "" {
		t.Fatalf("page received %#v", cmd)
	}

	missing := f.dispatch(t, stream, conn, highlighter, "show", nil)
	if reply(t, missing)["error"] != "missingParameter" {
		t.Fatalf("show without node = %v", missing)
	}
}
