// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package actors

import (
	"testing"
	"time"

	"github.com/tern-browser/tern/lib/testutil"
	"github.com/tern-browser/tern/script"
)

// documentEventNames extracts the lifecycle event names from a run of
// resource packets, in delivery order.
func documentEventNames(t *testing.T, packets []map[string]any) []string {
	t.Helper()
	var names []string
	for _, msg := range packets {
		array, ok := msg["array"].([]any)
		if !ok {
			continue
		}
		for _, entry := range array {
			pair, ok := entry.([]any)
			if !ok || len(pair) != 2 || pair[0] != "document-event" {
				continue
			}
			resources, ok := pair[1].([]any)
			if !ok {
				continue
			}
			for _, res := range resources {
				event, ok := res.(map[string]any)
				if !ok {
					continue
				}
				if name, ok := event["name"].(string); ok {
					names = append(names, name)
				}
			}
		}
	}
	return names
}

func TestNavigationLifecycleOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	streamA, connA := newClient(1)
	streamB, connB := newClient(2)
	f.target.AttachStream(1, streamA)
	f.target.AttachStream(2, streamB)

	f.target.NavigationStart("https://example.test/next")
	f.target.NavigationStop(2, 2, script.PageInfo{Title: "Next", URL: "https://example.test/next"})

	want := []string{"will-navigate", "dom-loading", "dom-interactive", "dom-complete"}
	for name, conn := range map[string]*captureConn{"A": connA, "B": connB} {
		names := documentEventNames(t, conn.packets(t))
		if len(names) != len(want) {
			t.Fatalf("stream %s saw events %v, want %v", name, names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Fatalf("stream %s saw events %v, want %v", name, names, want)
			}
		}
	}

	title, url := f.target.TitleAndURL()
	if title != "Next" || url != "https://example.test/next" {
		t.Fatalf("target state after navigation = %q, %q", title, url)
	}
	if f.target.Pipeline() != 2 {
		t.Fatalf("active pipeline = %d, want 2", f.target.Pipeline())
	}
}

func TestNavigationReachesOnlyAttachedStreams(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	attached, attachedConn := newClient(1)
	_, detachedConn := newClient(2)
	f.target.AttachStream(1, attached)

	f.target.NavigationStart("https://example.test/next")

	if names := documentEventNames(t, attachedConn.packets(t)); len(names) == 0 {
		t.Fatal("attached stream saw no events")
	}
	if packets := detachedConn.packets(t); len(packets) != 0 {
		t.Fatalf("unattached stream received %v", packets)
	}
}

func TestFirstAttachEnablesLiveNotifications(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, _ := newClient(1)
	f.target.AttachStream(1, stream)

	cmd := testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for live notification toggle")
	wants, ok := cmd.(script.WantsLiveNotifications)
	if !ok || !wants.Enabled {
		t.Fatalf("engine received %#v, want live notifications on", cmd)
	}

	// A second attach does not toggle again.
	second, _ := newClient(2)
	f.target.AttachStream(2, second)
	f.target.CleanupStream(2)
	select {
	case cmd := <-f.engine.sent:
		t.Fatalf("unexpected command %#v", cmd)
	default:
	}

	// The last stream leaving turns them off.
	f.target.CleanupStream(1)
	cmd = testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for live notification toggle")
	wants, ok = cmd.(script.WantsLiveNotifications)
	if !ok || wants.Enabled {
		t.Fatalf("engine received %#v, want live notifications off", cmd)
	}
}

func TestTitleChangedPushesFrameUpdate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)
	f.target.AttachStream(1, stream)

	f.target.TitleChanged("Renamed")

	packets := conn.packets(t)
	if len(packets) != 1 || packets[0]["type"] != "frameUpdate" {
		t.Fatalf("packets = %v, want one frameUpdate", packets)
	}
	frames, ok := packets[0]["frames"].([]any)
	if !ok || len(frames) != 1 {
		t.Fatalf("frames = %v", packets[0]["frames"])
	}
	frame, _ := frames[0].(map[string]any)
	if frame["title"] != "Renamed" {
		t.Fatalf("frame = %v", frame)
	}
}

func TestTargetEncode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	msg := f.target.Encode(f.registry)
	if msg.Actor != f.target.Name() || msg.Title != "Hello" || msg.URL != "https://example.test/" {
		t.Fatalf("target form = %+v", msg)
	}
	if !msg.IsTopLevelTarget || !msg.TraitsMsg.IsBrowsingContext {
		t.Fatalf("target form traits = %+v", msg)
	}
	if msg.ThreadActor == "" || msg.InspectorActor == "" || msg.CSSPropertiesActor == "" {
		t.Fatalf("target form missing child actors: %+v", msg)
	}
	if msg.AccessibilityActor == "" || msg.FramerateActor == "" {
		t.Fatalf("target form missing panel actors: %+v", msg)
	}
}

func TestTargetDetach(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)
	f.target.AttachStream(1, stream)
	testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for live notification toggle")

	packets := f.dispatch(t, stream, conn, f.target.Name(), "detach", nil)
	if len(packets) != 1 || packets[0]["from"] != f.target.Name() {
		t.Fatalf("detach reply = %v", packets)
	}
	cmd := testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for live notification toggle")
	if wants, ok := cmd.(script.WantsLiveNotifications); !ok || wants.Enabled {
		t.Fatalf("engine received %#v, want live notifications off", cmd)
	}
}

func TestSimulateColorScheme(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stream, conn := newClient(1)

	packets := f.dispatch(t, stream, conn, f.target.Name(), "simulateColorScheme",
		map[string]any{"scheme": "dark"})
	if len(packets) != 1 || packets[0]["from"] != f.target.Name() {
		t.Fatalf("reply = %v", packets)
	}
	cmd := testutil.RequireReceive(t, f.engine.sent, 5*time.Second, "waiting for the scheme command")
	scheme, ok := cmd.(script.SimulateColorScheme)
	if !ok || scheme.Scheme != "dark" {
		t.Fatalf("engine received %#v", cmd)
	}

	missing := f.dispatch(t, stream, conn, f.target.Name(), "simulateColorScheme", nil)
	if reply(t, missing)["error"] != "missingParameter" {
		t.Fatalf("reply without scheme = %v", missing)
	}
}
